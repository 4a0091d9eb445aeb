package annotation

import (
	"errors"

	"go.uber.org/zap"

	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

// ErrNotEnoughPoints is reported when a drawing session commits with
// fewer points than its tool requires.
var ErrNotEnoughPoints = errors.New("not enough points")

// ErrNotDrawing is reported when a session operation needs an active
// drawing and there is none.
var ErrNotDrawing = errors.New("no active drawing")

// Tool selects what a drawing session produces.
type Tool string

// Drawing tools.
const (
	ToolPoint   Tool = "point"
	ToolLine    Tool = "line"
	ToolPolygon Tool = "polygon"
	ToolSurface Tool = "surface"
	ToolBox     Tool = "box"
	ToolMeasure Tool = "measure"
)

// minPoints returns the minimum accrued points a tool needs to commit.
func minPoints(tool Tool) int {
	switch tool {
	case ToolLine, ToolMeasure, ToolBox:
		return 2
	case ToolPolygon:
		return 3
	case ToolSurface:
		return 0 // face selection lives in the paint engine
	default:
		return 1
	}
}

// Phase is the session state.
type Phase int

// Session phases.
const (
	PhaseIdle Phase = iota
	PhaseDrawing
)

// Draft is the outcome of a committed drawing session. The host's
// entry popup decides whether it actually persists into the document.
type Draft struct {
	Tool   Tool
	Points []math.Vec3
}

// Geometry builds the annotation geometry for the draft. Surface
// drafts return nil: their faces come from the paint engine. Box
// drafts span the axis-aligned box between the first two points.
func (d *Draft) Geometry() Geometry {
	switch d.Tool {
	case ToolPoint:
		return PointGeometry{Point: d.Points[0]}
	case ToolLine:
		return LineGeometry{Points: d.Points}
	case ToolMeasure:
		return LineGeometry{Points: d.Points, Measurement: true}
	case ToolPolygon:
		return PolygonGeometry{Points: d.Points}
	case ToolBox:
		if len(d.Points) < 2 {
			return nil
		}
		lo := d.Points[0].Min(d.Points[1])
		hi := d.Points[0].Max(d.Points[1])
		return BoxGeometry{
			Center:   lo.Add(hi).Scale(0.5),
			Size:     hi.Sub(lo),
			Rotation: math.QuatIdentity(),
		}
	}
	return nil
}

// Session is the state machine for one drawing interaction:
// Idle -> Drawing (point accrual) -> Committed or Cancelled -> Idle.
// Escape and tool switches cancel; commit validates point counts.
type Session struct {
	phase  Phase
	tool   Tool
	points []math.Vec3
	log    *zap.Logger
}

// NewSession creates an idle session. A nil logger disables logging.
func NewSession(log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{log: log}
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Tool returns the active tool; meaningful only while drawing.
func (s *Session) Tool() Tool {
	return s.tool
}

// Points returns the accrued points.
func (s *Session) Points() []math.Vec3 {
	return s.points
}

// Begin starts a drawing with the given tool. Switching tools while a
// drawing is active cancels it first, discarding accrued points.
func (s *Session) Begin(tool Tool) {
	if s.phase == PhaseDrawing {
		s.Cancel()
	}
	s.phase = PhaseDrawing
	s.tool = tool
	s.points = nil
}

// AddPoint accrues one point. Ignored while idle.
func (s *Session) AddPoint(p math.Vec3) error {
	if s.phase != PhaseDrawing {
		return ErrNotDrawing
	}
	s.points = append(s.points, p)
	return nil
}

// WithdrawPoint removes the most recently accrued point, the only
// undo the drawing flow offers.
func (s *Session) WithdrawPoint() bool {
	if s.phase != PhaseDrawing || len(s.points) == 0 {
		return false
	}
	s.points = s.points[:len(s.points)-1]
	return true
}

// Commit finishes the drawing and returns the draft. With too few
// points for the tool the session stays in Drawing and
// ErrNotEnoughPoints is returned, so the user can keep adding points.
func (s *Session) Commit() (*Draft, error) {
	if s.phase != PhaseDrawing {
		return nil, ErrNotDrawing
	}
	if len(s.points) < minPoints(s.tool) {
		return nil, ErrNotEnoughPoints
	}
	draft := &Draft{Tool: s.tool, Points: s.points}
	s.phase = PhaseIdle
	s.points = nil
	return draft, nil
}

// Cancel discards the drawing and returns to idle.
func (s *Session) Cancel() {
	if s.phase == PhaseDrawing {
		s.log.Debug("drawing cancelled",
			zap.String("tool", string(s.tool)),
			zap.Int("points", len(s.points)))
	}
	s.phase = PhaseIdle
	s.points = nil
}
