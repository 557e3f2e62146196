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

// Package journal implements the fixcli commands working on message
// journal files.
package journal

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"fixcodec/pkg/cmd"
	"fixcodec/pkg/fix"
	"fixcodec/pkg/msglog"
	"fixcodec/pkg/util"
)

type (
	journalCommandT struct {
		cmd.Command

		optJournalPath string
	}

	cmdRecordT struct {
		journalCommandT

		optInputFile  string
		optNumRecords uint
		optCompress   bool

		fields []fix.Field
	}

	cmdDumpT struct {
		journalCommandT

		optCountOnly bool
	}
)

func (c *journalCommandT) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optJournalPath, "j|journal", "", "specify the journal file")
}

func (c *journalCommandT) isOk(err error) bool {
	if err == nil {
		fmt.Printf("* command '%s' successful\n", c.GetName())
		return true
	} else {
		fmt.Printf("* command '%s' failed: %s\n", c.GetName(), err)
	}
	return false
}

func (c *cmdRecordT) Init(name string, desc string) {
	c.journalCommandT.Init(name, desc)
	c.StringOption(&c.optInputFile, "f|input-file", "", "specify a file with one hex wire message per line")
	c.UintOption(&c.optNumRecords, "n|num-records", 1, "specify the number of times to append the message")
	c.BoolOption(&c.optCompress, "z|compress", false, "compress the journal payloads")
	c.SetSynopsis("[option] [<tag>=<value> ...]")
	c.AddExample(name+" -j fix.mlog 8=FIX.4.2 35=0 49=CLIENT 56=BROKER", "\tencode the fields and append the wire message")
	c.AddExample(name+" -j fix.mlog -f wires.txt", "\tappend each hex line of wires.txt")
}

func (c *cmdRecordT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	if len(c.optJournalPath) == 0 {
		err = fmt.Errorf("missing journal file")
		return
	}
	if len(c.optInputFile) == 0 && c.NArg() < 1 {
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

func (c *cmdRecordT) Exec() {
	c.Validate()

	writer, err := msglog.NewWriter(msglog.Config{
		Path:     c.optJournalPath,
		Compress: c.optCompress,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	var numAppended int
	if len(c.optInputFile) != 0 {
		numAppended, err = c.appendFromFile(writer)
	} else {
		numAppended, err = c.appendFields(writer)
	}
	if cerr := writer.Close(); err == nil {
		err = cerr
	}
	if c.isOk(err) {
		fmt.Printf("  %d record(s) appended to %s\n", numAppended, c.optJournalPath)
	}
}

func (c *cmdRecordT) appendFields(writer *msglog.Writer) (n int, err error) {
	msg := fix.NewMessageWithCapacity(len(c.fields))
	for _, field := range c.fields {
		msg.AddField(field)
	}
	wire, err := msg.Encode()
	if err != nil {
		return
	}
	for i := uint(0); i < c.optNumRecords; i++ {
		if err = writer.Append(wire); err != nil {
			return
		}
		n++
	}
	return
}

func (c *cmdRecordT) appendFromFile(writer *msglog.Writer) (n int, err error) {
	file, err := os.Open(c.optInputFile)
	if err != nil {
		return
	}
	defer file.Close()

	lineNo := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		var wire []byte
		if wire, err = hex.DecodeString(line); err != nil {
			err = fmt.Errorf("%s line %d: %s", c.optInputFile, lineNo, err)
			return
		}
		if err = writer.Append(wire); err != nil {
			return
		}
		n++
	}
	err = scanner.Err()
	return
}

func (c *cmdDumpT) Init(name string, desc string) {
	c.journalCommandT.Init(name, desc)
	c.BoolOption(&c.optCountOnly, "c|count-only", false, "only report the number of records")
	c.SetSynopsis("[option] [<journal file>]")
	c.AddExample(name+" fix.mlog", "\tdecode and print every record of fix.mlog")
	c.AddExample(name+" -c fix.mlog", "\tcount the records of fix.mlog")
}

func (c *cmdDumpT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	if len(c.optJournalPath) == 0 {
		if c.NArg() < 1 {
			err = fmt.Errorf("missing journal file")
			return
		}
		c.optJournalPath = c.Arg(0)
	}
	return
}

func (c *cmdDumpT) Exec() {
	c.Validate()

	index := 0
	numRecords, err := msglog.Replay(c.optJournalPath, func(payload []byte) error {
		if c.optCountOnly {
			return nil
		}
		fmt.Printf("--- record %d, %d byte(s)\n", index, len(payload))
		index++
		msg, derr := fix.Decode(payload)
		if derr != nil {
			fmt.Printf("  not a valid message: %s\n  %s\n", derr, util.ToPrintableAndHexString(payload))
			return nil
		}
		msg.PrettyPrint(os.Stdout)
		return nil
	})
	if c.isOk(err) {
		fmt.Printf("  %d record(s) in %s\n", numRecords, c.optJournalPath)
	} else {
		fmt.Printf("  %d record(s) read before the error\n", numRecords)
	}
}

func init() {
	record := &cmdRecordT{}
	record.Init("record", "encode messages and append them to a journal")

	dump := &cmdDumpT{}
	dump.Init("dump", "decode and print the records of a journal")

	cmd.RegisterNewGroup("journal commands", record, dump)
}
