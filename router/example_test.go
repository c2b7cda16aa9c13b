package router_test

import (
	"fmt"

	"github.com/openfluidics/fluidroute/device"
	"github.com/openfluidics/fluidroute/geom"
	"github.com/openfluidics/fluidroute/router"
)

// ExampleRouter routes one channel between two pads facing each other.
func ExampleRouter() {
	chip, _ := device.NewComponent("chip", "chip",
		geom.GridPoint{0, 0, 0}, geom.GridPoint{30, 20, 10}, device.HullBackend{})

	pump, _ := device.NewComponent("pump", "pump",
		geom.GridPoint{2, 2, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
	out := device.NewPort(device.Out, geom.GridPoint{6, 3, 3}, geom.GridPoint{0, 2, 2}, device.PosX)
	pump.AddPort("out", out)
	chip.AddSubcomponent(pump)

	valve, _ := device.NewComponent("valve", "valve",
		geom.GridPoint{24, 2, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
	in := device.NewPort(device.In, geom.GridPoint{24, 3, 3}, geom.GridPoint{0, 2, 2}, device.NegX)
	valve.AddPort("in", in)
	chip.AddSubcomponent(valve)

	r, _ := router.New(chip)
	r.AutorouteChannel(out, in, "supply")

	report, _ := r.Route()
	fmt.Println(report.Resolved[0], report.Ok())
	// Output: pump.out__to__valve.in true
}
