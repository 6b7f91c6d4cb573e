package transfer

import (
	stderrors "errors"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/image-layout/errors"
)

// XMODEM control bytes.
const (
	SOH byte = 0x01
	EOT byte = 0x04
	ACK byte = 0x06
	NAK byte = 0x15
	CAN byte = 0x18
)

// PacketSize is the fixed data payload per packet. Short final payloads
// are padded with zeros on the wire.
const PacketSize = 128

// maxRetries bounds retransmissions of a single packet after checksum
// rejections before the transfer is abandoned.
const maxRetries = 10

// EventKind identifies a transfer milestone.
type EventKind int

const (
	// EventWaiting fires before the initial handshake byte arrives.
	EventWaiting EventKind = iota

	// EventStarted fires once the receiver has signalled readiness.
	EventStarted

	// EventPacket fires after a packet is acknowledged.
	EventPacket
)

// Event is a transfer milestone reported to a progress callback.
// Packet is the acknowledged packet number and only meaningful for
// EventPacket; it wraps at 255 like the on-wire counter.
type Event struct {
	Kind   EventKind
	Packet byte
}

// ProgressFunc observes transfer milestones.
type ProgressFunc func(Event)

// Transmitter frames payloads into XMODEM packets over rw.
// The zero packet counter state is not useful; construct with
// NewTransmitter.
type Transmitter struct {
	rw       io.ReadWriter
	progress ProgressFunc
	packet   byte
	started  bool
}

// NewTransmitter returns a transmitter over rw with no progress
// reporting.
func NewTransmitter(rw io.ReadWriter) *Transmitter {
	return NewTransmitterWithProgress(rw, nil)
}

// NewTransmitterWithProgress returns a transmitter over rw reporting
// milestones to progress.
func NewTransmitterWithProgress(rw io.ReadWriter, progress ProgressFunc) *Transmitter {
	if progress == nil {
		progress = func(Event) {}
	}
	return &Transmitter{
		rw:       rw,
		progress: progress,
		packet:   1,
	}
}

// Transmit sends everything read from data over rw and returns the
// number of payload bytes sent, excluding final-packet padding.
func Transmit(data io.Reader, rw io.ReadWriter) (int, error) {
	return TransmitWithProgress(data, rw, nil)
}

// TransmitWithProgress is Transmit with a progress callback.
//
// Packets rejected by the receiver (checksum NAK) are retransmitted up
// to ten times; any other protocol failure aborts the transfer.
func TransmitWithProgress(data io.Reader, rw io.ReadWriter, progress ProgressFunc) (int, error) {
	t := NewTransmitterWithProgress(rw, progress)

	var buf [PacketSize]byte
	written := 0
	for {
		n, err := readMax(data, buf[:])
		if err != nil {
			return written, errors.Wrap(errors.PhaseSend, errors.KindInvalidInput, err, "read payload")
		}
		if n == 0 {
			// end of input: run the EOT handshake
			if _, err := t.WritePacket(nil); err != nil {
				return written, err
			}
			return written, nil
		}
		for i := n; i < PacketSize; i++ {
			buf[i] = 0
		}

		if err := t.writeWithRetry(buf[:]); err != nil {
			return written, err
		}
		written += n
	}
}

func (t *Transmitter) writeWithRetry(buf []byte) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err = t.WritePacket(buf)
		if err == nil {
			return nil
		}
		var terr *errors.Error
		if !stderrors.As(err, &terr) || terr.Kind != errors.KindChecksum {
			return err
		}
		Logger().Warn("packet rejected, retransmitting",
			zap.Uint8("packet", t.packet),
			zap.Int("attempt", attempt+1))
	}
	return errors.New(errors.PhaseSend, errors.KindChecksum).
		Detail("packet %d rejected %d times", t.packet, maxRetries).
		Build()
}

// WritePacket sends one framed packet and waits for the acknowledgment.
// buf must be exactly PacketSize bytes; an empty buf ends the transfer
// with the EOT handshake. A checksum rejection returns a
// send/checksum error and leaves the packet counter unchanged so the
// caller can retransmit.
func (t *Transmitter) WritePacket(buf []byte) (int, error) {
	if len(buf) != PacketSize && len(buf) != 0 {
		return 0, errors.New(errors.PhaseSend, errors.KindInvalidInput).
			Detail("payload must be %d bytes, got %d", PacketSize, len(buf)).
			Build()
	}

	if !t.started {
		t.progress(Event{Kind: EventWaiting})
		if err := t.expect(NAK, "receiver handshake"); err != nil {
			return 0, err
		}
		t.started = true
		t.progress(Event{Kind: EventStarted})
	}

	if len(buf) == 0 {
		if err := t.writeByte(EOT); err != nil {
			return 0, err
		}
		if err := t.expect(NAK, "first EOT"); err != nil {
			return 0, err
		}
		if err := t.writeByte(EOT); err != nil {
			return 0, err
		}
		if err := t.expect(ACK, "second EOT"); err != nil {
			return 0, err
		}
		t.started = false
		return 0, nil
	}

	header := [3]byte{SOH, t.packet, ^t.packet}
	if _, err := t.rw.Write(header[:]); err != nil {
		return 0, wrapIO(err, "write packet header")
	}
	if _, err := t.rw.Write(buf); err != nil {
		return 0, wrapIO(err, "write payload")
	}
	if err := t.writeByte(checksum(buf)); err != nil {
		return 0, err
	}

	resp, err := t.readByte()
	if err != nil {
		return 0, err
	}
	switch resp {
	case ACK:
		t.progress(Event{Kind: EventPacket, Packet: t.packet})
		t.packet++
		return PacketSize, nil
	case NAK:
		return 0, errors.New(errors.PhaseSend, errors.KindChecksum).
			Detail("receiver rejected packet %d", t.packet).
			Build()
	default:
		return 0, errors.New(errors.PhaseSend, errors.KindInvalidData).
			Detail("expected ACK or NAK, got %#x", resp).
			Value(resp).
			Build()
	}
}

func (t *Transmitter) writeByte(b byte) error {
	if _, err := t.rw.Write([]byte{b}); err != nil {
		return wrapIO(err, "write")
	}
	return nil
}

// readByte reads the next protocol byte, treating CAN as a session
// abort.
func (t *Transmitter) readByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(t.rw, b[:]); err != nil {
		return 0, wrapIO(err, "read response")
	}
	if b[0] == CAN {
		return 0, errors.New(errors.PhaseSend, errors.KindAborted).
			Detail("receiver cancelled the transfer").
			Build()
	}
	return b[0], nil
}

func (t *Transmitter) expect(want byte, during string) error {
	got, err := t.readByte()
	if err != nil {
		return err
	}
	if got != want {
		return errors.New(errors.PhaseSend, errors.KindInvalidData).
			Detail("%s: expected %#x, got %#x", during, want, got).
			Value(got).
			Build()
	}
	return nil
}

// checksum is the sum of the payload bytes modulo 256.
func checksum(buf []byte) byte {
	var sum byte
	for _, b := range buf {
		sum += b
	}
	return sum
}

// readMax fills buf as far as the reader allows, returning a short
// count without error at end of input.
func readMax(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return n, nil
	}
	return n, err
}

func wrapIO(err error, detail string) error {
	return errors.Wrap(errors.PhaseSend, errors.KindInvalidData, err, detail)
}
