// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ValuePrefix addresses a path inside an entry's value, e.g. value.fg.
const ValuePrefix = "value."

var lengthRe = regexp.MustCompile(`-?\d+`)

// Attr represents each of the columns to be included in the output. Key is a
// row column (id, type, size, value) or a gjson path below the value, such as
// value.fg.
type Attr struct {
	// The row key to extract.
	Key string `yaml:"key"`
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool `yaml:"include"`
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string `yaml:"outputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec"`
}

// Transform applies the case and length parts of the spec. Strings are
// transformed directly. Lists and maps are transformed as their compact JSON
// when the spec has a length. Anything else passes through.
func (a *Attr) Transform(value interface{}) interface{} {
	if a.TransformSpec == "" {
		return value
	}

	var result string
	switch v := value.(type) {
	case string:
		result = v
	case map[string]interface{}, []interface{}:
		if !lengthRe.MatchString(a.TransformSpec) {
			return value
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return value
		}
		result = string(raw)
	default:
		return value
	}

	// We need to know which case transformation appears last.  This covers the
	// case where there has been a global case transformation prepended to the
	// attrs transformation and, thus, allows the attr's to carry more weight.
	// IOW...  --attrs '*::U,id::l' will be lower case.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Same logic as above re: case.  This allows a more specific length
	// transformation to override a global one.
	match := lengthRe.FindAllString(a.TransformSpec, -1)
	if len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		abs := int(math.Abs(float64(l)))
		if len(result) > abs {
			switch {
			case l < 0 && abs >= 4:
				// Keep both ends, e.g. "abcdefghij" at -8 is "abc..hij".
				lr := abs/2 - 1
				result = result[:lr] + ".." + result[len(result)-lr:]
			default:
				result = result[:abs]
			}
		}
	}

	return result
}

type AttrList []Attr

// Defaults returns the row columns in their display order.
func Defaults() AttrList {
	return AttrList{
		{Key: "id", OutputKey: "id", Include: true},
		{Key: "type", OutputKey: "type", Include: true},
		{Key: "size", OutputKey: "size", Include: true},
		{Key: "value", OutputKey: "value", Include: true},
	}
}

// Return a string representation of the AttrList.  This should match the format
// of the original --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include && key != "*" {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Parse each spec from the --attrs flag and add it to the AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	// There are three : delimited fields in each spec.  The first is the row
	// key.  The second is the key to use in the output.  The third is the
	// transformation spec to apply to the output value. The latter two are
	// optional.  The output key will default to the last section of the key.
	specs := strings.Split(value, ",")
specloop:
	for _, spec := range specs {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")
		if len(fields) > transformIdx+1 {
			return fmt.Errorf("invalid attr spec %q: too many fields", spec)
		}

		// The first field is the key.  If it begins with a !, it is excluded
		// from the output.
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q: empty key", spec)
		}

		if attr.Key == "*" {
			attr.Include = false
		}

		// Fixup the output field.  If there is only one field the output key
		// becomes the last segment of the . notation.
		if len(fields) == 1 {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		} else {
			if fields[outputIdx] != "" {
				attr.OutputKey = strings.TrimSpace(fields[outputIdx])
			} else {
				attr.OutputKey = attr.Key
			}
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// If the attr already exists in the list (because it's one of the defaults
		// or the user double-entered it) just apply the Include, OutputKey and
		// TransformSpec to the existing Attr.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				if len(fields) > 1 {
					(*a)[i].OutputKey = attr.OutputKey
				}
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec inserts a global transform spec into the front of all
// attrs in the list.
func (alist *AttrList) SetGlobalTransformSpec() error {
	spec := ""

	// Find the global transform spec.  If there is more than one, we're not
	// dealing with it and just taking the first.
	for a := range *alist {
		if (*alist)[a].Key == "*" {
			spec = (*alist)[a].TransformSpec
			break
		}
	}

	// Return early if there is no global transform spec.
	if spec == "" {
		return nil
	}

	for a := range *alist {
		if (*alist)[a].Key == "*" {
			continue
		}
		(*alist)[a].TransformSpec = spec + "," + (*alist)[a].TransformSpec
	}

	return nil
}

func (a *AttrList) Type() string {
	return "list"
}

// Columns returns the output keys of the included attrs, in order.
func (a AttrList) Columns() []string {
	cols := make([]string, 0, len(a))
	for _, attr := range a {
		if attr.Include {
			cols = append(cols, attr.OutputKey)
		}
	}
	return cols
}

// Apply projects rows onto the included attrs, renaming them to their output
// keys and transforming their values.
func (a AttrList) Apply(rows []map[string]interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		p := make(map[string]interface{}, len(a))
		for i := range a {
			if !a[i].Include {
				continue
			}
			v, _ := Lookup(row, a[i].Key)
			p[a[i].OutputKey] = a[i].Transform(v)
		}
		out = append(out, p)
	}
	return out
}

// Lookup resolves key against row. Keys under ValuePrefix are gjson paths
// into the row's value. known is false when the key names nothing the row
// could have.
func Lookup(row map[string]interface{}, key string) (value interface{}, known bool) {
	if v, ok := row[key]; ok {
		return v, true
	}

	path, ok := strings.CutPrefix(key, ValuePrefix)
	if !ok {
		return nil, false
	}
	raw, err := json.Marshal(row["value"])
	if err != nil {
		return nil, true
	}
	return gjson.GetBytes(raw, path).Value(), true
}
