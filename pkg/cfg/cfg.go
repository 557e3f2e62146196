//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

// Package cfg presents TOML configuration as a layered key/value tree,
// so defaults read from a struct, properties read from a file, and
// command line overrides can be merged before writing the result back
// to the struct. Keys are case insensitive.
package cfg

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/golang/glog"
)

type (
	// Config is a tree of configuration properties keyed by lowered
	// name. Not safe for concurrent use.
	Config struct {
		kvMap map[string]keyValue
	}
	// keyValue keeps the original spelling of the key next to its
	// value; the value of a section is a nested map[string]keyValue.
	keyValue struct {
		key   string
		value interface{}
	}
)

// ReadFrom loads the properties of i, a pointer to a struct or a map,
// by encoding it to TOML and reading that back.
func (c *Config) ReadFrom(i interface{}) (err error) {
	var buf bytes.Buffer
	if i != nil {
		if err = toml.NewEncoder(&buf).Encode(i); err != nil {
			return
		}
	}
	return c.ReadFromToml(&buf)
}

// ReadFromToml loads properties from TOML text.
func (c *Config) ReadFromToml(r io.Reader) (err error) {
	m := make(map[string]interface{})
	if _, err = toml.NewDecoder(r).Decode(&m); err == nil {
		c.setFrom(m)
	}
	return
}

func (c *Config) ReadFromTomlBytes(b []byte) (err error) {
	m := make(map[string]interface{})
	if _, err = toml.Decode(string(b), &m); err == nil {
		c.setFrom(m)
	}
	return
}

func (c *Config) ReadFromTomlFile(file string) (err error) {
	m := make(map[string]interface{})
	if _, err = toml.DecodeFile(file, &m); err == nil {
		c.setFrom(m)
	}
	return
}

// WriteToToml renders the properties as TOML.
func (c *Config) WriteToToml(w io.Writer) (err error) {
	m := make(map[string]interface{})
	setMap(m, c.kvMap)
	return toml.NewEncoder(w).Encode(m)
}

// WriteTo decodes the properties into v, a pointer to a struct or a
// map, through a TOML round trip.
func (c *Config) WriteTo(v interface{}) (err error) {
	var buf bytes.Buffer
	if err = c.WriteToToml(&buf); err != nil {
		return
	}
	_, err = toml.Decode(buf.String(), v)
	return
}

// Merge lays the properties of overrides on top of c. Sections merge
// recursively; a scalar overwrites the previous value of its key. A
// section and a scalar under the same key do not merge.
func (c *Config) Merge(overrides *Config) error {
	if c.kvMap == nil {
		c.kvMap = make(map[string]keyValue)
	}
	return merge(c.kvMap, overrides.kvMap)
}

// WriteToKVList renders the properties one per line as
// "dotted.key=value".
func (c *Config) WriteToKVList(w io.Writer) {
	for _, v := range c.kvMap {
		writeKeyValue(w, v.key, &v)
	}
}

// GetValue returns the value of the given dot-delimited key, nil if
// absent. A section is returned as a map[string]interface{}.
func (c *Config) GetValue(dotDelimitedKey string) interface{} {
	return lookup(c.kvMap, strings.Split(dotDelimitedKey, "."))
}

// GetConfig returns the section under the given dot-delimited key as
// its own Config.
func (c *Config) GetConfig(dotDelimitedKey string) (conf Config, err error) {
	if i := c.GetValue(dotDelimitedKey); i != nil {
		err = conf.ReadFrom(i)
	}
	return
}

// SetKeyValue sets the value of a dot-delimited key, creating the
// intermediate sections as needed.
func (c *Config) SetKeyValue(dotDelimitedKey string, v interface{}) {
	if dotDelimitedKey == "" {
		return
	}
	keys := strings.Split(dotDelimitedKey, ".")

	tmp := make(map[string]keyValue)
	cm := tmp
	for len(keys) > 1 {
		nested := make(map[string]keyValue)
		cm[strings.ToLower(keys[0])] = keyValue{keys[0], nested}
		cm = nested
		keys = keys[1:]
	}
	cm[strings.ToLower(keys[0])] = keyValue{keys[0], v}

	if c.kvMap == nil {
		c.kvMap = make(map[string]keyValue)
	}
	merge(c.kvMap, tmp)
}

func writeKeyValue(w io.Writer, k string, v *keyValue) {
	if vm, ok := v.value.(map[string]keyValue); ok {
		for _, sv := range vm {
			writeKeyValue(w, k+"."+sv.key, &sv)
		}
	} else {
		fmt.Fprintf(w, "%s=%v\n", k, v.value)
	}
}

func (c *Config) setFrom(m map[string]interface{}) {
	c.kvMap = make(map[string]keyValue)
	setKvMap(c.kvMap, m)
}

func merge(to, from map[string]keyValue) error {
	for k, v := range from {
		fromMap, fromIsMap := v.value.(map[string]keyValue)

		toV, found := to[k]
		if !found {
			if fromIsMap {
				nested := make(map[string]keyValue)
				to[k] = keyValue{v.key, nested}
				merge(nested, fromMap)
			} else {
				to[k] = v
			}
			continue
		}

		toMap, toIsMap := toV.value.(map[string]keyValue)
		switch {
		case toIsMap && fromIsMap:
			if err := merge(toMap, fromMap); err != nil {
				return err
			}
		case toIsMap != fromIsMap:
			return fmt.Errorf("key %s: cannot merge a section with a value", v.key)
		default:
			to[k] = v
		}
	}
	return nil
}

func lookup(kvs map[string]keyValue, keys []string) interface{} {
	if len(keys) == 0 {
		return nil
	}
	v, ok := kvs[strings.ToLower(keys[0])]
	if !ok {
		return nil
	}
	sub, isMap := v.value.(map[string]keyValue)
	if len(keys) == 1 {
		if isMap {
			m := make(map[string]interface{})
			setMap(m, sub)
			return m
		}
		return v.value
	}
	if !isMap {
		return nil
	}
	return lookup(sub, keys[1:])
}

func setKvMap(to map[string]keyValue, from map[string]interface{}) {
	for k, v := range from {
		lkey := strings.ToLower(k)
		if _, found := to[lkey]; found {
			glog.Warningf("key: %s found, skip", k)
			continue
		}
		if vm, ok := v.(map[string]interface{}); ok {
			nested := make(map[string]keyValue)
			to[lkey] = keyValue{key: k, value: nested}
			setKvMap(nested, vm)
		} else {
			to[lkey] = keyValue{k, v}
		}
	}
}

func setMap(to map[string]interface{}, from map[string]keyValue) {
	for _, v := range from {
		if _, found := to[v.key]; found {
			glog.Warningf("key: %s found, skip", v.key)
			continue
		}
		if vm, ok := v.value.(map[string]keyValue); ok {
			nested := make(map[string]interface{})
			to[v.key] = nested
			setMap(nested, vm)
		} else {
			to[v.key] = v.value
		}
	}
}
