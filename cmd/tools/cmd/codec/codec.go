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

// Package codec implements the fixcli commands working on single wire
// messages.
package codec

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"

	uuid "github.com/satori/go.uuid"

	"fixcodec/pkg/cmd"
	"fixcodec/pkg/fix"
	"fixcodec/pkg/util"
)

type (
	codecCommandT struct {
		cmd.Command

		fields []fix.Field
	}

	cmdEncodeT struct {
		codecCommandT

		optBeginString string
		optMsgType     string
		optGenClOrdID  bool
		optPretty      bool
	}

	cmdDecodeT struct {
		codecCommandT

		optInputType uint
		optHexDump   bool

		data []byte
	}
)

func (c *codecCommandT) parseFieldArgs() (err error) {
	if c.NArg() < 1 {
		err = fmt.Errorf("missing <tag>=<value> arguments")
		return
	}
	for i := 0; i < c.NArg(); i++ {
		field, perr := fix.ParseField(c.Arg(i))
		if perr != nil {
			err = fmt.Errorf("bad field %q: %s", c.Arg(i), perr)
			return
		}
		c.fields = append(c.fields, field)
	}
	return
}

// buildMessage assembles a message from the command line fields. The
// BeginString and MsgType given as options are prepended unless the
// arguments carry tag 8 or 35 themselves.
func (c *codecCommandT) buildMessage(beginString string, msgType string) *fix.Message {
	hasBeginString := false
	hasMsgType := false
	for i := range c.fields {
		switch c.fields[i].Tag() {
		case fix.TagBeginString:
			hasBeginString = true
		case fix.TagMsgType:
			hasMsgType = true
		}
	}
	msg := fix.NewMessageWithCapacity(len(c.fields) + 2)
	if !hasBeginString {
		msg.AddField(fix.NewField(fix.TagBeginString, []byte(beginString)))
	}
	if !hasMsgType && len(msgType) != 0 {
		msg.AddField(fix.NewField(fix.TagMsgType, []byte(msgType)))
	}
	for _, field := range c.fields {
		msg.AddField(field)
	}
	return msg
}

func (c *codecCommandT) isOk(err error) bool {
	if err == nil {
		fmt.Printf("* command '%s' successful\n", c.GetName())
		return true
	} else {
		fmt.Printf("* command '%s' failed: %s\n", c.GetName(), err)
	}
	return false
}

func (c *cmdEncodeT) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optBeginString, "b|begin-string", fix.VersionFIX42, "specify the BeginString(8) if not given as an argument")
	c.StringOption(&c.optMsgType, "t|msg-type", "", "specify the MsgType(35) if not given as an argument")
	c.BoolOption(&c.optGenClOrdID, "gen|generate-clordid", false, "generate a ClOrdID(11) if not given as an argument")
	c.BoolOption(&c.optPretty, "p|pretty", false, "pretty print the fields of the encoded message")
	c.SetSynopsis("[option] <tag>=<value> [<tag>=<value> ...]")
	c.AddExample(name+" -t D 49=CLIENT 56=BROKER 34=1 55=IBM", "\tencode an order message")
	c.AddExample(name+" 8=FIX.4.4 35=0 49=CLIENT 56=BROKER", "\tencode a heartbeat with an explicit BeginString")
}

func (c *cmdEncodeT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	err = c.parseFieldArgs()
	return
}

func (c *cmdEncodeT) Exec() {
	c.Validate()

	if c.optGenClOrdID {
		hasClOrdID := false
		for i := range c.fields {
			if c.fields[i].Tag() == fix.TagClOrdID {
				hasClOrdID = true
				break
			}
		}
		if !hasClOrdID {
			c.fields = append(c.fields, fix.NewField(fix.TagClOrdID, []byte(uuid.NewV4().String())))
		}
	}

	msg := c.buildMessage(c.optBeginString, c.optMsgType)
	wire, err := msg.Encode()
	if !c.isOk(err) {
		return
	}
	fmt.Printf("  %d byte(s): %s\n", len(wire), util.ToPrintableString(wire))
	fmt.Printf("  hex: %s\n", hex.EncodeToString(wire))
	if c.optPretty {
		if decoded, derr := fix.Decode(wire); derr == nil {
			decoded.PrettyPrint(os.Stdout)
		}
	}
}

func (c *cmdDecodeT) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.UintOption(&c.optInputType, "it|input-type", 0, "specify the type of the input. \n   \t0 - hex string\n   \t1 - file with raw wire bytes")
	c.BoolOption(&c.optHexDump, "x|hexdump", false, "hex dump the wire bytes")
	c.SetSynopsis("[option] <hex string>|<file>")
	c.AddExample(name+" 383d4649582e342e3201...", "\tdecode a wire message given as hex")
	c.AddExample(name+" -it 1 message.bin", "\tdecode the wire message stored in message.bin")
}

func (c *cmdDecodeT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	if c.NArg() < 1 {
		err = fmt.Errorf("missing input")
		return
	}
	switch c.optInputType {
	case 0:
		c.data, err = hex.DecodeString(c.Arg(0))
	case 1:
		c.data, err = ioutil.ReadFile(c.Arg(0))
	default:
		err = fmt.Errorf("input type %d not supported", c.optInputType)
	}
	return
}

func (c *cmdDecodeT) Exec() {
	c.Validate()

	msg, err := fix.Decode(c.data)
	if c.isOk(err) {
		msg.PrettyPrint(os.Stdout)
	}
	if c.optHexDump {
		util.HexDump(os.Stdout, c.data)
	}
}

func init() {
	encode := &cmdEncodeT{}
	encode.Init("encode", "encode a message from <tag>=<value> fields")

	decode := &cmdDecodeT{}
	decode.Init("decode", "decode a wire message and print its fields")

	cmd.RegisterNewGroup("codec commands", encode, decode)
}
