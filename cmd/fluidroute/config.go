package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/openfluidics/fluidroute/channel"
	"github.com/openfluidics/fluidroute/device"
	"github.com/openfluidics/fluidroute/geom"
	"github.com/openfluidics/fluidroute/router"
)

// deviceConfig is the YAML description of a routable device.
type deviceConfig struct {
	Component struct {
		ID       string `yaml:"id"`
		Name     string `yaml:"name"`
		Position [3]int `yaml:"position"`
		Size     [3]int `yaml:"size"`
	} `yaml:"component"`
	Channel struct {
		Size [3]int `yaml:"size"`
		// Margin is a pointer so an explicit [0, 0, 0] is distinguishable
		// from an absent key, which keeps the router default.
		Margin *[3]int `yaml:"margin"`
	} `yaml:"channel"`
	Subcomponents []subConfig   `yaml:"subcomponents"`
	Routes        []routeConfig `yaml:"routes"`
}

type subConfig struct {
	ID       string       `yaml:"id"`
	Position [3]int       `yaml:"position"`
	Size     [3]int       `yaml:"size"`
	Ports    []portConfig `yaml:"ports"`
}

type portConfig struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`   // in | out | inout
	Normal   string `yaml:"normal"` // +X, -X, +Y, -Y, +Z, -Z
	Position [3]int `yaml:"position"`
	Size     [3]int `yaml:"size"`
}

type routeConfig struct {
	Kind      string       `yaml:"kind"` // autoroute | fractional | polychannel
	From      string       `yaml:"from"` // <subcomponent>.<port>
	To        string       `yaml:"to"`
	Label     string       `yaml:"label"`
	Fractions [][3]float64 `yaml:"fractions"` // fractional only
	Waypoints [][3]float64 `yaml:"waypoints"` // polychannel only
}

func loadConfig(path string) (*deviceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg deviceConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return &cfg, nil
}

var portTypes = map[string]device.PortType{
	"in":    device.In,
	"out":   device.Out,
	"inout": device.InOut,
}

var normals = map[string]device.SurfaceNormal{
	"+X": device.PosX, "-X": device.NegX,
	"+Y": device.PosY, "-Y": device.NegY,
	"+Z": device.PosZ, "-Z": device.NegZ,
}

// buildComponent assembles the device tree from the config.
func (cfg *deviceConfig) buildComponent() (*device.Component, error) {
	name := cfg.Component.Name
	if name == "" {
		name = cfg.Component.ID
	}
	comp, err := device.NewComponent(cfg.Component.ID, name,
		point(cfg.Component.Position), point(cfg.Component.Size), device.HullBackend{})
	if err != nil {
		return nil, err
	}
	for _, sc := range cfg.Subcomponents {
		sub, err := device.NewComponent(sc.ID, sc.ID, point(sc.Position), point(sc.Size), device.HullBackend{})
		if err != nil {
			return nil, fmt.Errorf("subcomponent %s: %w", sc.ID, err)
		}
		for _, pc := range sc.Ports {
			pt, ok := portTypes[strings.ToLower(pc.Type)]
			if !ok {
				return nil, fmt.Errorf("port %s.%s: unknown type %q", sc.ID, pc.Name, pc.Type)
			}
			n, ok := normals[strings.ToUpper(pc.Normal)]
			if !ok {
				return nil, fmt.Errorf("port %s.%s: unknown normal %q", sc.ID, pc.Name, pc.Normal)
			}
			port := device.NewPort(pt, point(pc.Position), point(pc.Size), n)
			if err := sub.AddPort(pc.Name, port); err != nil {
				return nil, err
			}
		}
		if err := comp.AddSubcomponent(sub); err != nil {
			return nil, err
		}
	}

	return comp, nil
}

// registerRoutes resolves port references and registers every route
// intent on the router.
func (cfg *deviceConfig) registerRoutes(comp *device.Component, r *router.Router) error {
	for _, rc := range cfg.Routes {
		in, err := lookupPort(comp, rc.From)
		if err != nil {
			return err
		}
		out, err := lookupPort(comp, rc.To)
		if err != nil {
			return err
		}
		switch strings.ToLower(rc.Kind) {
		case "autoroute", "":
			err = r.AutorouteChannel(in, out, rc.Label)
		case "fractional":
			fractions := make([]geom.Vec3, len(rc.Fractions))
			for i, f := range rc.Fractions {
				fractions[i] = geom.Vec3(f)
			}
			err = r.RouteWithFractionalPath(in, out, fractions, rc.Label)
		case "polychannel":
			size := vec(cfg.Channel.Size)
			segments := make([]channel.Segment, len(rc.Waypoints))
			for i, wp := range rc.Waypoints {
				segments[i] = channel.CrossSection{
					Kind:     channel.KindCube,
					Position: geom.Vec3(wp),
					Size:     size,
					Absolute: true,
				}
			}
			err = r.RouteWithPolychannel(in, out, segments, rc.Label)
		default:
			err = fmt.Errorf("route %s -> %s: unknown kind %q", rc.From, rc.To, rc.Kind)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// lookupPort resolves "<subcomponent>.<port>" against the tree.
func lookupPort(comp *device.Component, ref string) (*device.Port, error) {
	subID, portName, ok := strings.Cut(ref, ".")
	if !ok {
		return nil, fmt.Errorf("port reference %q: want <component>.<port>", ref)
	}
	if subID == comp.ID() {
		if p, found := comp.Port(portName); found {
			return p, nil
		}

		return nil, fmt.Errorf("port %q not found", ref)
	}
	for _, sub := range comp.Subcomponents() {
		if sub.ID() != subID {
			continue
		}
		if p, found := sub.Port(portName); found {
			return p, nil
		}
	}

	return nil, fmt.Errorf("port %q not found", ref)
}

func point(a [3]int) geom.GridPoint { return geom.GridPoint(a) }

func vec(a [3]int) geom.Vec3 {
	return geom.Vec3{float64(a[0]), float64(a[1]), float64(a[2])}
}
