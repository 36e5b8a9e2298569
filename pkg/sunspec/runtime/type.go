package runtime

// PointKind is the closed set of decodable SunSpec point types. Type tags
// from schema documents are resolved into kinds once at catalog load time.
type PointKind int8

const (
	Pad PointKind = iota
	String
	Sunssf
	Int16
	Uint16
	Enum16
	Bitfield16
	Int32
	Uint32
	Acc32
	Int64
	Uint64
	Acc64
)

var PointKindToString = map[PointKind]string{
	Pad:        "pad",
	String:     "string",
	Sunssf:     "sunssf",
	Int16:      "int16",
	Uint16:     "uint16",
	Enum16:     "enum16",
	Bitfield16: "bitfield16",
	Int32:      "int32",
	Uint32:     "uint32",
	Acc32:      "acc32",
	Int64:      "int64",
	Uint64:     "uint64",
	Acc64:      "acc64",
}

var StringToPointKind = map[string]PointKind{
	"pad":        Pad,
	"string":     String,
	"sunssf":     Sunssf,
	"int16":      Int16,
	"uint16":     Uint16,
	"enum16":     Enum16,
	"bitfield16": Bitfield16,
	"int32":      Int32,
	"uint32":     Uint32,
	"acc32":      Acc32,
	"int64":      Int64,
	"uint64":     Uint64,
	"acc64":      Acc64,
}

func (k PointKind) String() string {
	return PointKindToString[k]
}

// Point is a compiled schema point.
type Point struct {
	Name     string    `json:"name"`
	Kind     PointKind `json:"kind"`
	Size     int       `json:"size,omitempty"` // bytes for string, registers for pad
	ScaleRef string    `json:"scaleRef,omitempty"`
	Units    string    `json:"units,omitempty"`
	Label    string    `json:"label,omitempty"`
}

// Group is a compiled schema group. A repeating group replays its point
// sequence N times, N taken from the previously decoded CountField point.
type Group struct {
	Name       string  `json:"name"`
	Points     []Point `json:"points"`
	Repeating  bool    `json:"repeating,omitempty"`
	CountField string  `json:"countField,omitempty"`
}

// Model is a compiled schema model, groups in declared order.
type Model struct {
	ID     uint16  `json:"id"`
	Name   string  `json:"name"`
	Groups []Group `json:"groups"`
}

// PointValue is one decoded point. Raw is nil when the device reported the
// kind's invalid sentinel. Value carries the engineering value after scale
// application, or Raw unchanged when no scale factor applies.
type PointValue struct {
	Raw         interface{} `json:"raw"`
	Value       interface{} `json:"cvalue"`
	Units       string      `json:"units,omitempty"`
	Description string      `json:"desc,omitempty"`
	Precision   *int        `json:"precision,omitempty"`
}

// ModelParseResult holds every non-pad point decoded from one model block.
type ModelParseResult struct {
	ModelID   uint16                `json:"modelId"`
	ModelName string                `json:"modelName"`
	Points    map[string]PointValue `json:"points"`
}

// DiscoveredModel is one entry of the model chain found during a scan.
type DiscoveredModel struct {
	ModelID     uint16 `json:"modelId"`
	Length      uint16 `json:"length"`      // data payload length in registers
	DataAddress uint16 `json:"dataAddress"` // absolute register address of the payload
}

// ScanResult is the model layout discovered on a device. A new scan replaces
// the previous result wholesale.
type ScanResult struct {
	BaseAddress uint16            `json:"baseAddress"`
	Models      []DiscoveredModel `json:"models"`
}
