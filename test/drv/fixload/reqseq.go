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

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

type Item struct {
	reqType     RequestType
	numRequests int
}

// RequestSequence is one cycle of the load pattern, e.g. "E:2,D:1"
// runs two encodes then one decode per cycle.
type RequestSequence struct {
	items []Item
}

func (i *Item) PrettyPrint(w io.Writer) {
	fmt.Fprintf(w, "\t%d: %s\n", i.numRequests, i.reqType)
}

func (s *RequestSequence) initFromPattern(p string) error {
	s.items = nil
	for _, elem := range strings.Split(p, ",") {
		tn := strings.Split(elem, ":")
		if len(tn) != 2 {
			return fmt.Errorf("element %q: want <op>:<count>", elem)
		}
		n, err := strconv.Atoi(tn[1])
		if err != nil || n < 0 {
			return fmt.Errorf("element %q: bad count %q", elem, tn[1])
		}
		var rType RequestType
		switch strings.ToUpper(tn[0]) {
		case "E":
			rType = kRequestTypeEncode
		case "D":
			rType = kRequestTypeDecode
		case "R":
			rType = kRequestTypeRoundTrip
		default:
			return fmt.Errorf("element %q: unknown operation %q", elem, tn[0])
		}
		s.items = append(s.items, Item{rType, n})
	}
	return nil
}

func (s *RequestSequence) PrettyPrint(w io.Writer) {
	for _, item := range s.items {
		item.PrettyPrint(w)
	}
}
