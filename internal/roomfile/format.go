package roomfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"robot-sim/internal/simulation"
)

// Format writes the room in the text format read by Parse.
func (r *Room) Format(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "room: %sx%s\n", num(r.Width), num(r.Height))
	for _, rect := range r.Obstacles {
		fmt.Fprintf(bw, "obstacle: %sx%s [%s, %s]\n", num(rect.Width), num(rect.Height), num(rect.X), num(rect.Y))
	}
	for _, decl := range r.Robots {
		fmt.Fprintf(bw, "%s: [%s, %s] { %s }\n", decl.Kind, num(decl.Position.X), num(decl.Position.Y), decl.attributes())
	}

	return bw.Flush()
}

func (decl RobotDecl) attributes() string {
	attrs := []string{
		"speed: " + num(decl.Speed),
		"angle: " + num(angleToDegrees(decl.Angle)),
	}
	p := decl.Profile
	switch decl.Kind {
	case simulation.KindAuto:
		attrs = append(attrs,
			"elide_distance: "+num(p.ElideDistance),
			"elide_rotation: "+num(p.ElideRotation*180/math.Pi),
			"rotation_speed: "+num(p.RotationSpeed*180/math.Pi),
		)
	case simulation.KindControl:
		attrs = append(attrs, "rotation_speed: "+num(p.RotationSpeed*180/math.Pi))
	}
	return strings.Join(attrs, ", ")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
