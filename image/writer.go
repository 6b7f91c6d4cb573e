package image

import (
	"io"

	"github.com/wippyai/image-layout/errors"
	"github.com/wippyai/image-layout/image/internal/binary"
	"github.com/wippyai/image-layout/layout"
)

// Encode renders the stored bytes of the image: every loaded region's
// members at their final offsets, with alignment gaps zero-filled. The
// result is StoredSize bytes long; NoLoad regions are absent.
func Encode(img *layout.Image) []byte {
	w := binary.NewWriter()
	for _, region := range img.Regions {
		if region.NoLoad {
			continue
		}
		for _, m := range region.Members {
			w.PadTo(m.Addr - img.Base)
			if m.Section.Data != nil {
				w.WriteBytes(m.Section.Data)
			} else {
				w.Zero(m.Section.Size)
			}
		}
	}
	w.PadTo(img.StoredSize())
	return w.Bytes()
}

// Write encodes the image and writes it out.
func Write(w io.Writer, img *layout.Image) error {
	if _, err := w.Write(Encode(img)); err != nil {
		return errors.Wrap(errors.PhaseEmit, errors.KindInvalidInput, err, "write image")
	}
	return nil
}
