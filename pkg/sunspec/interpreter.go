package sunspec

import (
	"github.com/pkg/errors"
	"sunspecengine/pkg/sunspec/runtime"
)

// Interpreter walks a compiled model definition over a flat register slice
// holding exactly that model's data payload, header already stripped.
type Interpreter struct{}

// Parse decodes every group of the model in declared order. Scale factors
// decoded during the call are visible to all later points of the same call.
// Iterations of a repeating group write to the same point name, so the last
// iteration wins.
func (i *Interpreter) Parse(model *runtime.Model, regs []uint16) (*runtime.ModelParseResult, error) {
	pos := 0
	points := map[string]runtime.PointValue{}
	scales := map[string]int16{}
	for _, group := range model.Groups {
		var err error
		pos, err = i.parseGroup(group, regs, pos, points, scales)
		if err != nil {
			return nil, errors.Wrapf(err, "model %d group %q", model.ID, group.Name)
		}
	}
	return &runtime.ModelParseResult{
		ModelID:   model.ID,
		ModelName: model.Name,
		Points:    points,
	}, nil
}

func (i *Interpreter) parseGroup(group runtime.Group, regs []uint16, pos int, points map[string]runtime.PointValue, scales map[string]int16) (int, error) {
	repeats := 1
	if group.Repeating {
		count, ok := points[group.CountField]
		if !ok || count.Raw == nil {
			// No count decoded yet means the group is absent on this device.
			repeats = 0
		} else {
			n, ok := rawToInt(count.Raw)
			if !ok {
				return pos, errors.Wrapf(runtime.ErrSchema, "count field %q is not numeric", group.CountField)
			}
			repeats = n
		}
	}
	for it := 0; it < repeats; it++ {
		for _, point := range group.Points {
			if point.Kind == runtime.Pad {
				pad := 1
				if point.Size > 0 {
					pad = point.Size
				}
				pos += pad
				continue
			}
			if pos > len(regs) {
				return pos, errors.Wrapf(runtime.ErrProtocol, "payload exhausted before point %q", point.Name)
			}

			if point.Kind == runtime.String {
				res, err := DecodeString(regs[pos:], point.Size)
				if err != nil {
					return pos, errors.Wrapf(err, "point %q", point.Name)
				}
				pos += res.RegistersUsed
				points[point.Name] = runtime.PointValue{
					Raw:         res.Value,
					Value:       res.Value,
					Description: point.Label,
				}
				continue
			}

			res, err := Decode(point.Kind, regs[pos:])
			if err != nil {
				return pos, errors.Wrapf(err, "point %q", point.Name)
			}
			pos += res.RegistersUsed

			if point.Kind == runtime.Sunssf {
				if res.Value != nil {
					scales[point.Name] = int16(res.Value.(int64))
				}
				// The exponent itself is emitted unscaled.
				points[point.Name] = runtime.PointValue{
					Raw:         res.Value,
					Value:       res.Value,
					Description: point.Label,
				}
				continue
			}

			value := res.Value
			var precision *int
			if point.ScaleRef != "" && res.Value != nil {
				if sf, ok := scales[point.ScaleRef]; ok {
					if f, numeric := rawToFloat(res.Value); numeric {
						value = ApplyScale(f, sf)
						p := PrecisionFromScale(sf)
						precision = &p
					}
				}
			}
			points[point.Name] = runtime.PointValue{
				Raw:         res.Value,
				Value:       value,
				Units:       point.Units,
				Description: point.Label,
				Precision:   precision,
			}
		}
	}
	return pos, nil
}

func rawToInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	default:
		return 0, false
	}
}

func rawToFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
