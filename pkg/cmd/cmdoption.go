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

package cmd

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// Option wraps flag.FlagSet so that an option name may carry aliases
// separated by '|', e.g. "t|msg-type". Every alias binds to the same
// destination. The OPTION section shown by the usage template is
// accumulated as options get registered.
type Option struct {
	flag.FlagSet
	optsDesc string
}

// register binds each non-empty alias of names via bind and appends one
// OPTION entry. kind is the value-type keyword printed after the alias
// list, defval the rendered default; either may be empty to be omitted.
func (o *Option) register(names string, kind string, defval string, usage string, bind func(alias string)) {
	var opt string
	for _, alias := range strings.Split(names, "|") {
		if alias == "" {
			continue
		}
		bind(alias)
		if opt != "" {
			opt += ", "
		}
		opt += "-" + alias
	}
	if opt == "" {
		return
	}
	if kind != "" {
		opt += " " + kind
	}
	o.optsDesc += fmt.Sprintf("  %s\n", opt)
	if defval != "" {
		o.optsDesc += fmt.Sprintf("    \t(default %s)\n", defval)
	}
	o.optsDesc += fmt.Sprintf("    \t%s\n\n", usage)
}

func (o *Option) StringOption(p *string, name string, value string, usage string) {
	o.register(name, "string", fmt.Sprintf("%q", value), usage, func(alias string) {
		o.StringVar(p, alias, value, "")
	})
}

func (o *Option) BoolOption(p *bool, name string, value bool, usage string) {
	o.register(name, "", fmt.Sprint(value), usage, func(alias string) {
		o.BoolVar(p, alias, value, "")
	})
}

func (o *Option) UintOption(p *uint, name string, value uint, usage string) {
	o.register(name, "uint", fmt.Sprint(value), usage, func(alias string) {
		o.UintVar(p, alias, value, "")
	})
}

func (o *Option) IntOption(p *int, name string, value int, usage string) {
	o.register(name, "int", fmt.Sprint(value), usage, func(alias string) {
		o.IntVar(p, alias, value, "")
	})
}

func (o *Option) DurationOption(p *time.Duration, name string, value time.Duration, usage string) {
	o.register(name, "duration", fmt.Sprint(value), usage, func(alias string) {
		o.DurationVar(p, alias, value, "")
	})
}

// GetOptionDesc returns the accumulated OPTION section.
func (o *Option) GetOptionDesc() string {
	return o.optsDesc
}
