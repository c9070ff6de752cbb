package expr

import "fmt"

// ============================================================
// JSON form
// ============================================================

// ToJSON returns a tagged-map form of n suitable for encoding/json, e.g.
// {"type":"binary","op":"^","left":{...},"right":{...}}.
func ToJSON(n Node) map[string]interface{} {
	switch v := n.(type) {
	case Constant:
		return map[string]interface{}{"type": "constant", "value": v.Value}
	case Symbol:
		return map[string]interface{}{"type": "symbol", "name": v.Name}
	case BinaryOp:
		return map[string]interface{}{
			"type":  "binary",
			"op":    v.Op.String(),
			"left":  ToJSON(v.Left),
			"right": ToJSON(v.Right),
		}
	case Call:
		return map[string]interface{}{"type": "call", "name": v.Name, "arg": ToJSON(v.Arg)}
	}
	panic(fmt.Sprintf("expr: unknown node %T", n))
}

// FromJSON is the inverse of ToJSON. It accepts the output of a round trip
// through encoding/json, where numbers decode as float64.
func FromJSON(data map[string]interface{}) (Node, error) {
	typ, _ := data["type"].(string)
	switch typ {
	case "constant":
		v, ok := data["value"].(float64)
		if !ok {
			return nil, fmt.Errorf("constant: missing numeric value")
		}
		return Num(v), nil
	case "symbol":
		name, ok := data["name"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("symbol: missing name")
		}
		return Sym(name), nil
	case "binary":
		opText, _ := data["op"].(string)
		op, ok := parseOp(opText)
		if !ok {
			return nil, fmt.Errorf("binary: unknown op %q", opText)
		}
		l, err := child(data, "left")
		if err != nil {
			return nil, err
		}
		r, err := child(data, "right")
		if err != nil {
			return nil, err
		}
		return Binary(op, l, r), nil
	case "call":
		name, ok := data["name"].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("call: missing name")
		}
		arg, err := child(data, "arg")
		if err != nil {
			return nil, err
		}
		return Func(name, arg), nil
	}
	return nil, fmt.Errorf("unknown node type %q", typ)
}

func child(data map[string]interface{}, key string) (Node, error) {
	m, ok := data[key].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing %s", key)
	}
	return FromJSON(m)
}

func parseOp(s string) (Op, bool) {
	for _, o := range []Op{Add, Sub, Mul, Div, Pow} {
		if o.String() == s {
			return o, true
		}
	}
	return 0, false
}
