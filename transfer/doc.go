// Package transfer sends a built image to a boot target over a serial
// line using the XMODEM protocol.
//
// The receiver drives the handshake: it emits NAK when ready, the sender
// answers with 128-byte framed packets, and each packet is acknowledged
// individually. A NAK response means the checksum did not match and the
// packet is retransmitted; CAN from either side aborts the session.
//
// Transmit an encoded image to an open serial port:
//
//	n, err := transfer.Transmit(bytes.NewReader(data), port)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("sent %d bytes\n", n)
//
// TransmitWithProgress additionally reports milestones, which the CLI
// uses to draw a packet counter:
//
//	transfer.TransmitWithProgress(r, port, func(e transfer.Event) {
//	    if e.Kind == transfer.EventPacket {
//	        fmt.Printf("\rpacket %d", e.Packet)
//	    }
//	})
//
// The matching Receive side is provided for loopback testing and for
// tooling that runs on the target end of the wire.
package transfer
