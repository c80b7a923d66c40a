// Package responder emulates HF-A11 WiFi modules on the discovery port.
//
// A Responder listens for the HF-A11ASSISTHREAD probe and answers the sender
// with one "ip,hwaddr,model" datagram per configured device, followed by any
// raw payloads. It is used for local development without hardware and by the
// discovery integration tests.
//
//	r := responder.New(&responder.Config{
//	    Port: 48899,
//	    Devices: []discovery.Device{
//	        {IP: "192.168.1.42", HWAddr: "ACCF23A1B2C3", Model: "HF-LPB100"},
//	    },
//	})
//	if err := r.Start(); err != nil {
//	    log.Fatal(err)
//	}
package responder
