package assembly

import "github.com/OpenTraceLab/OpenTracePnP/pkg/kicad/pcb"

// Side is the assembly side a page is drawn for.
type Side int

const (
	SideTop Side = iota
	SideBottom
)

// Layer returns the copper layer whose components are placed on this side.
func (s Side) Layer() pcb.Layer {
	if s == SideBottom {
		return pcb.LayerBack
	}
	return pcb.LayerFront
}

// Mirror reports whether the side is viewed through the board.
func (s Side) Mirror() bool {
	return s == SideBottom
}

func (s Side) String() string {
	if s == SideBottom {
		return "bottom"
	}
	return "top"
}

// PadCounts tallies highlighted pads by mounting style and side.
type PadCounts struct {
	TopTHT    int
	BottomTHT int
	TopSMD    int
	BottomSMD int
}

// Add accumulates o into c.
func (c *PadCounts) Add(o PadCounts) {
	c.TopTHT += o.TopTHT
	c.BottomTHT += o.BottomTHT
	c.TopSMD += o.TopSMD
	c.BottomSMD += o.BottomSMD
}

// Total returns the number of counted pads.
func (c PadCounts) Total() int {
	return c.TopTHT + c.BottomTHT + c.TopSMD + c.BottomSMD
}

// count records one pad. Connector, NPTH and unknown pads are not counted.
func (c *PadCounts) count(mount pcb.MountType, bottom bool) {
	switch mount {
	case pcb.MountThroughHole:
		if bottom {
			c.BottomTHT++
		} else {
			c.TopTHT++
		}
	case pcb.MountSMD:
		if bottom {
			c.BottomSMD++
		} else {
			c.TopSMD++
		}
	}
}
