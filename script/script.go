package script

import (
	"os"

	"github.com/wippyai/image-layout/errors"
	"github.com/wippyai/image-layout/layout"
	"github.com/wippyai/image-layout/script/internal/parser"
	"github.com/wippyai/image-layout/script/internal/token"
)

// Default is the standard four-region contract in script form, equivalent to
// layout.DefaultConfig except for the base address, which it leaves at zero
// for the caller to set.
const Default = `(discard ".comment*" ".note*" ".gnu*" ".eh_frame*")

(region code
  (first ".text.init*" ".init")
  (sections ".text*" ".init*"))

(region rodata
  (sections ".rodata*"))

(region data
  (orphans)
  (sections ".data*"))

(region bss
  (noload)
  (align-start 32)
  (align-end 8)
  (sections ".bss*")
  (late "COMMON" ".common*"))
`

// Compile parses a layout script into a placement configuration.
func Compile(source string) (*layout.Config, error) {
	tokens := token.Tokenize(source)
	p := parser.New(tokens)
	cfg, err := p.Parse()
	if err != nil {
		return nil, errors.ParseFailed("layout script", err)
	}
	return cfg, nil
}

// CompileFile reads and compiles a layout script from disk.
func CompileFile(path string) (*layout.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "read layout script")
	}
	return Compile(string(data))
}
