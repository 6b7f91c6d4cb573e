// Package parser turns layout script tokens into a layout.Config.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/image-layout/layout"
	"github.com/wippyai/image-layout/script/internal/token"
)

type Parser struct {
	cfg     layout.Config
	regions map[string]bool
	tokens  []token.Token
	pos     int
	hasBase bool
}

func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens:  tokens,
		regions: make(map[string]bool),
	}
}

// Parse consumes every top-level form and returns the assembled config.
func (p *Parser) Parse() (*layout.Config, error) {
	for p.peek() != nil {
		if err := p.parseForm(); err != nil {
			return nil, err
		}
	}
	return &p.cfg, nil
}

func (p *Parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *Parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *Parser) expect(typ token.Type) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, fmt.Errorf("unexpected end of input")
	}
	if t.Type != typ {
		return nil, fmt.Errorf("line %d: expected %v, got %q", t.Line, typ, t.Value)
	}
	return t, nil
}

func (p *Parser) parseForm() error {
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	head, err := p.expect(token.Ident)
	if err != nil {
		return err
	}

	switch head.Value {
	case "base":
		return p.parseBase(head.Line)
	case "discard":
		return p.parseDiscard()
	case "region":
		return p.parseRegion()
	}
	return fmt.Errorf("line %d: unknown form %q", head.Line, head.Value)
}

func (p *Parser) parseBase(line int) error {
	if p.hasBase {
		return fmt.Errorf("line %d: duplicate base form", line)
	}
	num, err := p.expect(token.Number)
	if err != nil {
		return err
	}
	v, err := parseUint(num.Value)
	if err != nil {
		return fmt.Errorf("line %d: bad base address %q: %w", num.Line, num.Value, err)
	}
	p.cfg.Base = v
	p.hasBase = true
	_, err = p.expect(token.RParen)
	return err
}

func (p *Parser) parseDiscard() error {
	patterns, err := p.parseStrings()
	if err != nil {
		return err
	}
	p.cfg.Discards = append(p.cfg.Discards, patterns...)
	return nil
}

func (p *Parser) parseRegion() error {
	name, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if p.regions[name.Value] {
		return fmt.Errorf("line %d: duplicate region %q", name.Line, name.Value)
	}
	p.regions[name.Value] = true

	spec := layout.RegionSpec{Name: name.Value}

	for {
		t := p.peek()
		if t == nil {
			return fmt.Errorf("unexpected end of input in region %q", spec.Name)
		}
		if t.Type == token.RParen {
			p.next()
			break
		}
		if err := p.parseRegionAttr(&spec); err != nil {
			return err
		}
	}

	p.cfg.Regions = append(p.cfg.Regions, spec)
	return nil
}

func (p *Parser) parseRegionAttr(spec *layout.RegionSpec) error {
	if _, err := p.expect(token.LParen); err != nil {
		return err
	}
	head, err := p.expect(token.Ident)
	if err != nil {
		return err
	}

	switch head.Value {
	case "sections":
		patterns, err := p.parsePatterns(head.Line)
		if err != nil {
			return err
		}
		spec.Patterns = append(spec.Patterns, patterns...)
		return nil
	case "first":
		patterns, err := p.parsePatterns(head.Line)
		if err != nil {
			return err
		}
		spec.First = append(spec.First, patterns...)
		return nil
	case "late":
		patterns, err := p.parsePatterns(head.Line)
		if err != nil {
			return err
		}
		spec.Late = append(spec.Late, patterns...)
		return nil
	case "noload":
		spec.NoLoad = true
		_, err := p.expect(token.RParen)
		return err
	case "orphans":
		if p.cfg.OrphanRegion != "" && p.cfg.OrphanRegion != spec.Name {
			return fmt.Errorf("line %d: orphans already assigned to region %q",
				head.Line, p.cfg.OrphanRegion)
		}
		p.cfg.OrphanRegion = spec.Name
		_, err := p.expect(token.RParen)
		return err
	case "align-start":
		v, err := p.parseAlign(head.Line)
		if err != nil {
			return err
		}
		spec.AlignStart = v
		return nil
	case "align-end":
		v, err := p.parseAlign(head.Line)
		if err != nil {
			return err
		}
		spec.AlignEnd = v
		return nil
	}
	return fmt.Errorf("line %d: unknown region attribute %q", head.Line, head.Value)
}

func (p *Parser) parseAlign(line int) (uint64, error) {
	num, err := p.expect(token.Number)
	if err != nil {
		return 0, err
	}
	v, err := parseUint(num.Value)
	if err != nil {
		return 0, fmt.Errorf("line %d: bad alignment %q: %w", num.Line, num.Value, err)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return 0, err
	}
	return v, nil
}

func (p *Parser) parsePatterns(line int) ([]string, error) {
	patterns, err := p.parseStrings()
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("line %d: expected at least one pattern", line)
	}
	return patterns, nil
}

// parseStrings consumes string tokens up to and including the closing paren.
func (p *Parser) parseStrings() ([]string, error) {
	var out []string
	for {
		t := p.next()
		if t == nil {
			return nil, fmt.Errorf("unexpected end of input")
		}
		switch t.Type {
		case token.RParen:
			return out, nil
		case token.String:
			out = append(out, t.Value)
		default:
			return nil, fmt.Errorf("line %d: expected string or ')', got %q", t.Line, t.Value)
		}
	}
}

func parseUint(s string) (uint64, error) {
	return strconv.ParseUint(strings.ReplaceAll(s, "_", ""), 0, 64)
}
