// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conf

import (
	"net"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
	"github.com/pkg/errors"
)

// Struct tags read by Process.
const (
	// helpTag exposes the field as a flag. Fields without it are left alone.
	helpTag = "help"
	// defaultTag holds the default value.
	defaultTag = "default"
	// defaultFromFieldTag names an unexported string field holding the default value.
	defaultFromFieldTag = "defaultFromField"
	// typeTag narrows a string field; only "ip" is known.
	typeTag = "type"
	typeIP  = "ip"

	// prefixFieldName is the unexported string field prefixing every flag of the struct.
	prefixFieldName = "flagPrefix"
)

// Process registers a flag for every string and int field of the struct pointed to by
// data that carries a help tag, and sets the field to the flag value. Before the flags
// are parsed that is the default value.
func Process(data interface{}) error {
	pointer := reflect.ValueOf(data)
	if pointer.Kind() != reflect.Ptr || pointer.Elem().Kind() != reflect.Struct {
		return errors.Errorf("Argument needs to be a pointer to struct. Got %s", pointer.Kind())
	}
	value := pointer.Elem()
	structType := value.Type()
	prefix := stringField(value, prefixFieldName)

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}
		if err := processField(value, field, structType.Field(i), prefix); err != nil {
			return errors.Wrapf(err, "field %s", structType.Field(i).Name)
		}
	}
	return nil
}

func stringField(value reflect.Value, name string) string {
	field := value.FieldByName(name)
	if field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}

func processField(owner, field reflect.Value, fieldStruct reflect.StructField, prefix string) error {
	tag := fieldStruct.Tag
	help := tag.Get(helpTag)
	if help == "" {
		for _, other := range []string{defaultTag, defaultFromFieldTag, typeTag} {
			if tag.Get(other) != "" {
				return errors.New("Required help tag is missing. Cannot process the struct for flags.")
			}
		}
		return nil
	}

	name := nameFromFieldName(prefix + fieldStruct.Name)
	defaultValue := tag.Get(defaultTag)
	if defaultValue == "" {
		defaultValue = stringField(owner, tag.Get(defaultFromFieldTag))
	}

	switch field.Kind() {
	case reflect.String:
		if tag.Get(typeTag) == typeIP {
			if defaultValue != "" && net.ParseIP(defaultValue) == nil {
				return errors.Errorf("Wrong default value for IP type flag: %q is not an IP address", defaultValue)
			}
			field.SetString(NewIPFlag(name, help, defaultValue).Value())
			return nil
		}
		field.SetString(NewStringFlag(name, help, defaultValue).Value())
	case reflect.Int:
		var defaultInt int
		if defaultValue != "" {
			var err error
			if defaultInt, err = strconv.Atoi(defaultValue); err != nil {
				return errors.Wrap(err, "Wrong default value for Int type flag")
			}
		}
		field.SetInt(int64(NewIntFlag(name, help, defaultInt).Value()))
	default:
		return errors.Errorf("%s type not supported for a flag", field.Type())
	}
	return nil
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return word != ""
}

// nameFromFieldName converts a field name to a flag name, e.g. IperfTCPWindow to
// iperf_tcp_window. Numbers stay attached to the word before them, so Cl1TestIP
// becomes cl1_test_ip.
func nameFromFieldName(name string) string {
	words := []string{}
	for _, word := range camelcase.Split(name) {
		if word == "_" {
			continue
		}
		word = strings.ToLower(word)
		if isNumber(word) && len(words) > 0 {
			words[len(words)-1] += word
			continue
		}
		words = append(words, word)
	}

	return strings.Join(words, "_")
}
