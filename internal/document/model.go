package document

// Document is the parsed drawing as consumed by the viewer. It mirrors the
// JSON produced by the external JWW parser; entities are classified once at
// decode time and carry an explicit Kind.
type Document struct {
	Version       int            `json:"version"`
	Memo          string         `json:"memo"`
	PaperSize     int            `json:"paper_size"`
	Bounds        *Bounds        `json:"bounds,omitempty"`
	Layers        []Layer        `json:"layers"`
	Entities      []Entity       `json:"entities"`
	PrintSettings *PrintSettings `json:"print_settings,omitempty"`
	EntityCounts  EntityCounts   `json:"entity_counts"`
}

// Bounds is an axis-aligned rectangle in document (Y-up) space.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// DefaultBounds is used when no entity yields a bounding box.
var DefaultBounds = Bounds{MinX: 0, MinY: 0, MaxX: 400, MaxY: 300}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

type Layer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}

type PrintSettings struct {
	OriginX float64 `json:"origin_x"`
	OriginY float64 `json:"origin_y"`
	Scale   float64 `json:"scale"`
}

type EntityCounts struct {
	Lines  int `json:"lines"`
	Arcs   int `json:"arcs"`
	Points int `json:"points"`
	Texts  int `json:"texts"`
	Solids int `json:"solids"`
	Blocks int `json:"blocks"`
	Images int `json:"images"`
}

// IsZero reports whether no entity of any kind was counted.
func (c EntityCounts) IsZero() bool {
	return c == EntityCounts{}
}

type Kind string

const (
	KindLine    Kind = "line"
	KindArc     Kind = "arc"
	KindPoint   Kind = "point"
	KindText    Kind = "text"
	KindSolid   Kind = "solid"
	KindBlock   Kind = "block"
	KindImage   Kind = "image"
	KindUnknown Kind = "unknown"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Base holds the attributes shared by every entity kind.
type Base struct {
	Layer    int `json:"layer"`
	PenColor int `json:"pen_color"`
	PenWidth int `json:"pen_width"`
}

// Entity is a tagged variant. Exactly one of the kind-specific pointers is
// set, matching Kind; Unknown entities carry none.
type Entity struct {
	Kind Kind `json:"kind"`
	Base Base `json:"base"`

	Line  *Line  `json:"line,omitempty"`
	Arc   *Arc   `json:"arc,omitempty"`
	Point *Point `json:"point,omitempty"`
	Text  *Text  `json:"text,omitempty"`
	Solid *Solid `json:"solid,omitempty"`
	Block *Block `json:"block,omitempty"`
	Image *Image `json:"image,omitempty"`

	// Raw holds the numeric attributes exactly as decoded, keyed by their
	// flattened names (start_x, radius, ...). Used for inspection.
	Raw map[string]float64 `json:"raw,omitempty"`
}

type Line struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Arc angles are in radians, counter-clockwise from the positive X axis.
type Arc struct {
	Center       Point   `json:"center"`
	Radius       float64 `json:"radius"`
	StartAngle   float64 `json:"start_angle"`
	ArcAngle     float64 `json:"arc_angle"`
	IsFullCircle bool    `json:"is_full_circle"`
}

// Text angle is in degrees, counter-clockwise. End is nil when the parser
// did not report an end point.
type Text struct {
	Start   Point   `json:"start"`
	End     *Point  `json:"end,omitempty"`
	Content string  `json:"content"`
	SizeX   float64 `json:"size_x"`
	SizeY   float64 `json:"size_y"`
	Angle   float64 `json:"angle"`
	Spacing float64 `json:"spacing"`
}

type Solid struct {
	Points [4]Point `json:"points"`
}

type Block struct {
	DefNumber int `json:"def_number"`
}

// Image rotation is in degrees, counter-clockwise.
type Image struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	ImagePath string  `json:"image_path"`
	Rotation  float64 `json:"rotation"`
}

// CountEntities tallies classified entities by kind.
func CountEntities(entities []Entity) EntityCounts {
	var c EntityCounts
	for i := range entities {
		switch entities[i].Kind {
		case KindLine:
			c.Lines++
		case KindArc:
			c.Arcs++
		case KindPoint:
			c.Points++
		case KindText:
			c.Texts++
		case KindSolid:
			c.Solids++
		case KindBlock:
			c.Blocks++
		case KindImage:
			c.Images++
		}
	}
	return c
}

// PaperSizeLabel maps the JWW paper size code to a display label.
func PaperSizeLabel(code int) string {
	switch code {
	case 0:
		return "A0"
	case 1:
		return "A1"
	case 2:
		return "A2"
	case 3:
		return "A3"
	case 4:
		return "A4"
	case 8:
		return "2A"
	case 9:
		return "3A"
	case 10:
		return "4A"
	case 11:
		return "5A"
	case 12:
		return "10m"
	case 13:
		return "50m"
	case 14:
		return "100m"
	default:
		return "-"
	}
}
