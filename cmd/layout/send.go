package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mattn/go-tty"

	"github.com/wippyai/image-layout/image"
	"github.com/wippyai/image-layout/layout"
	"github.com/wippyai/image-layout/transfer"
)

// send transmits the stored image bytes to the boot target listening
// on the serial device.
func send(device string, img *layout.Image) error {
	t, err := tty.OpenDevice(device)
	if err != nil {
		return fmt.Errorf("open %s: %w", device, err)
	}
	defer t.Close()
	restore, err := t.Raw()
	if err != nil {
		return fmt.Errorf("raw mode on %s: %w", device, err)
	}
	defer restore()

	data := image.Encode(img)
	port := struct {
		io.Reader
		io.Writer
	}{t.Input(), t.Output()}

	n, err := transfer.TransmitWithProgress(bytes.NewReader(data), port, sendProgress(len(data)))
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Printf("%s: sent %d bytes\n", device, n)
	return nil
}

// sendProgress renders transfer milestones on one status line.
func sendProgress(total int) transfer.ProgressFunc {
	packets := (total + transfer.PacketSize - 1) / transfer.PacketSize
	sent := 0
	return func(e transfer.Event) {
		switch e.Kind {
		case transfer.EventWaiting:
			fmt.Print("waiting for receiver...")
		case transfer.EventStarted:
			fmt.Print(" connected\n")
		case transfer.EventPacket:
			sent++
			fmt.Printf("\rpacket %d/%d", sent, packets)
		}
	}
}
