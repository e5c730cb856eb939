// Package provision drives an ESP-Touch provisioning attempt over UDP.
//
// A Provisioner encodes a credential with package protocol, binds the
// acknowledgment port and then alternates between two broadcast phases until
// the device answers or the send window runs out:
//
//	GuidePhase  2000 ms  the four guide codes, repeated
//	DataPhase   4000 ms  three data codes at a time, cycling through the datum
//
// Every group of packets goes to the next address in 234.1.1.1 ... 234.100.100.100
// on port 7001, with 8 ms between packets. The overall send window is 45 s.
//
// # States
//
//	Idle -> GuidePhase <-> DataPhase -> Acked | Errored | TimedOut | Canceled
//
// # Acknowledgments
//
// A reader goroutine forwards every inbound datagram to the sending loop, which
// validates it at the next yield point (after a packet's interval sleep). The
// loop owns all attempt state; nothing is shared with the reader except the
// channel. Datagrams that do not match the acknowledgment format are discarded.
//
// # Usage Example
//
//	p := provision.NewProvisioner(provision.DefaultConfig(), logger)
//	result, err := p.Provision(ctx, cred)
//	if err != nil {
//	    return err // encoding, bind or send failure
//	}
//	if !result.Acked {
//	    fmt.Println("device did not respond")
//	}
//
// # Testing
//
// Clock and Transport are interfaces so the timing loop can be driven by a
// fake clock and an in-memory socket; see provisioner_test.go.
package provision
