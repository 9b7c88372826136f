// Package irclimate encodes and decodes infrared air-conditioner remote
// commands for several Carrier, Saijo Denki and Mitsubishi remotes.
//
// # Basic Usage
//
//	schema, err := irclimate.Lookup("carrier")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dev, err := irclimate.NewDevice("living_room", schema,
//	    irclimate.WithTransmitter(tx),
//	    irclimate.WithPublisher(func(name string, s irclimate.State) {
//	        fmt.Println(name, s)
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = dev.Apply(irclimate.Request{
//	    Mode:        irclimate.Some(irclimate.ModeCool),
//	    Temperature: irclimate.Some(24.0),
//	})
//
// # Layers
//
// A Profile holds the pulse widths of one IR protocol. Encode and Decode
// convert between a Frame and a burst of signed microsecond durations
// (marks positive, spaces negative). A Schema maps a State onto the byte
// layout of one remote and back. A Device holds the state of one unit.
//
// # Serial Bridge
//
// Bridge connects to an IR transceiver over a serial port. Outgoing bursts
// are written as
//
//	TX 38000 9000,-4500,650,-1600,...
//
// and every received line carrying a raw dump is offered to the registered
// devices until one accepts it.
package irclimate
