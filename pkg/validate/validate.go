// Package validate checks request structs against a `validate` struct tag.
//
// Rules (comma-separated, first failure per field wins):
//
//	required         not zero/empty
//	nullable         skip the remaining rules when the field is empty
//	alpha_dash       letters, digits, '-' and '_'
//	numeric          parses as a number
//	min=N / max=N    numbers: value bound; strings: rune length bound
//	gte=N / lte=N    numeric bounds
//	between=A,B      numeric value or string length within [A, B]
//	in=a,b,c         one of the listed values
//	confirmed        equals the sibling field <name>_confirmation
//
// Numeric rules also accept types with an InexactFloat64 method, so
// decimal amounts validate like floats.
//
//	type ProductInput struct {
//	    Brand string          `json:"brand" validate:"required,max=50"`
//	    Price decimal.Decimal `json:"price" validate:"gte=0,lte=999999"`
//	    Tier  int             `json:"tier"  validate:"required,between=1,3"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// Struct validates v and returns field → message. An empty map means valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		value := rv.Field(i)
		name := jsonFieldName(field)
		rules := splitRules(tag)

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value, rv); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	return errs
}

func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value, parent reflect.Value) string {
	raw := stringOf(v)
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "alpha_dash":
		for _, c := range raw {
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '-' && c != '_' {
				return fmt.Sprintf("The %s field may only contain letters, numbers, dashes, and underscores.", field)
			}
		}

	case "numeric":
		if _, ok := number(v); !ok {
			return fmt.Sprintf("The %s field must be a number.", field)
		}

	case "min":
		n := parseFloat(param)
		if f, ok := number(v); ok && isNumeric(v) {
			if f < n {
				return fmt.Sprintf("The %s must be at least %s.", field, param)
			}
		} else if runeLen(raw) < n {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}

	case "max":
		n := parseFloat(param)
		if f, ok := number(v); ok && isNumeric(v) {
			if f > n {
				return fmt.Sprintf("The %s must not be greater than %s.", field, param)
			}
		} else if runeLen(raw) > n {
			return fmt.Sprintf("The %s must not exceed %s characters.", field, param)
		}

	case "gte":
		if f, ok := number(v); !ok || f < parseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}

	case "lte":
		if f, ok := number(v); !ok || f > parseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}

	case "between":
		lo, hi, ok := strings.Cut(param, ",")
		if !ok {
			return ""
		}
		min, max := parseFloat(lo), parseFloat(hi)
		if isNumeric(v) {
			f, _ := number(v)
			if f < min || f > max {
				return fmt.Sprintf("The %s must be between %s and %s.", field, lo, hi)
			}
		} else if l := runeLen(raw); l < min || l > max {
			return fmt.Sprintf("The %s must be between %s and %s characters.", field, lo, hi)
		}

	case "in":
		for _, a := range strings.Split(param, ",") {
			if raw == strings.TrimSpace(a) {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)

	case "confirmed":
		other, ok := siblingByJSONName(parent, field+"_confirmation")
		if !ok || stringOf(other) != raw {
			return fmt.Sprintf("The %s confirmation does not match.", field)
		}
	}

	return ""
}

type inexactFloat interface {
	InexactFloat64() float64
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	if v.CanInterface() {
		_, ok := v.Interface().(inexactFloat)
		return ok
	}
	return false
}

// number returns v as a float64. Strings are parsed.
func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f, err == nil
	}
	if v.CanInterface() {
		if d, ok := v.Interface().(inexactFloat); ok {
			return d.InexactFloat64(), true
		}
	}
	return 0, false
}

func stringOf(v reflect.Value) string {
	if !v.IsValid() || !v.CanInterface() {
		return ""
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func runeLen(s string) float64 { return float64(len([]rune(s))) }

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	if idx := strings.Index(name, ","); idx != -1 {
		name = name[:idx]
	}
	return name
}

var ruleNames = map[string]bool{
	"required": true, "nullable": true, "alpha_dash": true, "numeric": true,
	"min": true, "max": true, "gte": true, "lte": true, "between": true,
	"in": true, "confirmed": true,
}

// splitRules splits on commas, re-attaching tokens that are not rule names
// to the previous rule so "in=a,b,c" and "between=1,3" survive.
func splitRules(tag string) []string {
	var rules []string
	for _, tok := range strings.Split(tag, ",") {
		tok = strings.TrimSpace(tok)
		key, _, _ := strings.Cut(tok, "=")
		if ruleNames[key] || len(rules) == 0 {
			rules = append(rules, tok)
			continue
		}
		rules[len(rules)-1] += "," + tok
	}
	return rules
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if r == target {
			return true
		}
	}
	return false
}

func siblingByJSONName(parent reflect.Value, name string) (reflect.Value, bool) {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if jsonFieldName(rt.Field(i)) == name {
			return parent.Field(i), true
		}
	}
	return reflect.Value{}, false
}
