package transfer

import (
	stderrors "errors"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/image-layout/errors"
)

// Receiver reassembles XMODEM packets from rw. It is the counterpart
// of Transmitter and exists mainly for loopback tests and target-side
// tooling.
type Receiver struct {
	rw       io.ReadWriter
	progress ProgressFunc
	packet   byte
	started  bool
}

// NewReceiver returns a receiver over rw with no progress reporting.
func NewReceiver(rw io.ReadWriter) *Receiver {
	return NewReceiverWithProgress(rw, nil)
}

// NewReceiverWithProgress returns a receiver over rw reporting
// milestones to progress.
func NewReceiverWithProgress(rw io.ReadWriter, progress ProgressFunc) *Receiver {
	if progress == nil {
		progress = func(Event) {}
	}
	return &Receiver{
		rw:       rw,
		progress: progress,
		packet:   1,
	}
}

// Receive reads a complete transfer from rw into out and returns the
// number of bytes received. The count includes final-packet padding:
// the protocol does not carry the payload length, so the result is
// always a multiple of PacketSize.
func Receive(rw io.ReadWriter, out io.Writer) (int, error) {
	r := NewReceiver(rw)

	var buf [PacketSize]byte
	received := 0
	for {
		n, err := r.readWithRetry(buf[:])
		if err != nil {
			return received, err
		}
		if n == 0 {
			return received, nil
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return received, errors.Wrap(errors.PhaseSend, errors.KindInvalidInput, err, "write payload")
		}
		received += n
	}
}

func (r *Receiver) readWithRetry(buf []byte) (int, error) {
	var (
		n   int
		err error
	)
	for attempt := 0; attempt < maxRetries; attempt++ {
		n, err = r.ReadPacket(buf)
		if err == nil {
			return n, nil
		}
		var terr *errors.Error
		if !stderrors.As(err, &terr) || terr.Kind != errors.KindChecksum {
			return 0, err
		}
		Logger().Warn("bad checksum, awaiting retransmission",
			zap.Uint8("packet", r.packet),
			zap.Int("attempt", attempt+1))
	}
	return 0, errors.New(errors.PhaseSend, errors.KindChecksum).
		Detail("packet %d corrupt %d times", r.packet, maxRetries).
		Build()
}

// ReadPacket reads one packet into buf, which must be at least
// PacketSize bytes. It returns 0 at end of transfer. A checksum
// mismatch NAKs the sender and returns a send/checksum error; the
// caller retries by calling ReadPacket again.
func (r *Receiver) ReadPacket(buf []byte) (int, error) {
	if len(buf) < PacketSize {
		return 0, errors.New(errors.PhaseSend, errors.KindInvalidInput).
			Detail("buffer must hold %d bytes, got %d", PacketSize, len(buf)).
			Build()
	}

	if !r.started {
		r.progress(Event{Kind: EventWaiting})
		if err := r.writeByte(NAK); err != nil {
			return 0, err
		}
		r.started = true
		r.progress(Event{Kind: EventStarted})
	}

	first, err := r.readByte(true)
	if err != nil {
		return 0, err
	}

	if first == EOT {
		if err := r.writeByte(NAK); err != nil {
			return 0, err
		}
		if err := r.expectByte(EOT, "second EOT"); err != nil {
			return 0, err
		}
		if err := r.writeByte(ACK); err != nil {
			return 0, err
		}
		r.started = false
		return 0, nil
	}
	if first != SOH {
		return 0, r.cancel("expected SOH or EOT, got %#x", first)
	}

	seq, err := r.readByte(false)
	if err != nil {
		return 0, err
	}
	if seq != r.packet {
		return 0, r.cancel("expected packet %d, got %d", r.packet, seq)
	}
	cmpl, err := r.readByte(false)
	if err != nil {
		return 0, err
	}
	if cmpl != ^r.packet {
		return 0, r.cancel("bad packet complement %#x for packet %d", cmpl, r.packet)
	}

	if _, err := io.ReadFull(r.rw, buf[:PacketSize]); err != nil {
		return 0, wrapIO(err, "read payload")
	}
	sum, err := r.readByte(false)
	if err != nil {
		return 0, err
	}

	if sum != checksum(buf[:PacketSize]) {
		if err := r.writeByte(NAK); err != nil {
			return 0, err
		}
		return 0, errors.New(errors.PhaseSend, errors.KindChecksum).
			Detail("checksum mismatch on packet %d", r.packet).
			Build()
	}

	if err := r.writeByte(ACK); err != nil {
		return 0, err
	}
	r.progress(Event{Kind: EventPacket, Packet: r.packet})
	r.packet++
	return PacketSize, nil
}

// cancel tells the sender to stop and reports the framing error.
func (r *Receiver) cancel(detail string, args ...any) error {
	if err := r.writeByte(CAN); err != nil {
		return err
	}
	return errors.New(errors.PhaseSend, errors.KindInvalidData).
		Detail(detail, args...).
		Build()
}

func (r *Receiver) writeByte(b byte) error {
	if _, err := r.rw.Write([]byte{b}); err != nil {
		return wrapIO(err, "write")
	}
	return nil
}

// readByte reads one byte. Payload-position reads pass abortOnCAN
// false so a literal 0x18 data byte is not mistaken for a cancel.
func (r *Receiver) readByte(abortOnCAN bool) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r.rw, b[:]); err != nil {
		return 0, wrapIO(err, "read")
	}
	if abortOnCAN && b[0] == CAN {
		return 0, errors.New(errors.PhaseSend, errors.KindAborted).
			Detail("sender cancelled the transfer").
			Build()
	}
	return b[0], nil
}

func (r *Receiver) expectByte(want byte, during string) error {
	got, err := r.readByte(true)
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
