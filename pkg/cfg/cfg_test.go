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

package cfg

import (
	"bytes"
	"strings"
	"testing"
)

type testDriverConfig struct {
	RequestPattern string
	NumExecutor    int
	Journal        struct {
		Path     string
		Compress bool
	}
}

func defaultTestConfig() testDriverConfig {
	var c testDriverConfig
	c.RequestPattern = "E:1,D:1"
	c.NumExecutor = 1
	c.Journal.Compress = true
	return c
}

func TestReadFromStruct(t *testing.T) {
	base := defaultTestConfig()
	var conf Config
	if err := conf.ReadFrom(&base); err != nil {
		t.Fatalf("ReadFrom failed: %s", err)
	}
	if v := conf.GetValue("RequestPattern"); v != "E:1,D:1" {
		t.Errorf("RequestPattern: got %v", v)
	}
	// keys are case insensitive
	if v := conf.GetValue("journal.compress"); v != true {
		t.Errorf("journal.compress: got %v", v)
	}
	if v := conf.GetValue("Journal.Path"); v != "" {
		t.Errorf("Journal.Path: got %v", v)
	}
	if v := conf.GetValue("NoSuchKey"); v != nil {
		t.Errorf("missing key: got %v", v)
	}
}

func TestMergeOverrides(t *testing.T) {
	base := defaultTestConfig()
	var conf Config
	if err := conf.ReadFrom(&base); err != nil {
		t.Fatalf("ReadFrom failed: %s", err)
	}

	overrides := &Config{}
	err := overrides.ReadFromTomlBytes([]byte(`
NumExecutor = 4

[Journal]
Path = "a.mlog"
`))
	if err != nil {
		t.Fatalf("ReadFromTomlBytes failed: %s", err)
	}
	if err := conf.Merge(overrides); err != nil {
		t.Fatalf("Merge failed: %s", err)
	}

	var out testDriverConfig
	if err := conf.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo failed: %s", err)
	}
	if out.NumExecutor != 4 {
		t.Errorf("NumExecutor: got %d, expected 4", out.NumExecutor)
	}
	if out.Journal.Path != "a.mlog" {
		t.Errorf("Journal.Path: got %s", out.Journal.Path)
	}
	if !out.Journal.Compress {
		t.Errorf("Journal.Compress lost in merge")
	}
	if out.RequestPattern != "E:1,D:1" {
		t.Errorf("RequestPattern lost in merge: got %s", out.RequestPattern)
	}
}

func TestSetKeyValueNested(t *testing.T) {
	base := defaultTestConfig()
	var conf Config
	if err := conf.ReadFrom(&base); err != nil {
		t.Fatalf("ReadFrom failed: %s", err)
	}
	conf.SetKeyValue("Journal.Path", "b.mlog")

	if v := conf.GetValue("journal.path"); v != "b.mlog" {
		t.Errorf("journal.path: got %v", v)
	}

	var out testDriverConfig
	if err := conf.WriteTo(&out); err != nil {
		t.Fatalf("WriteTo failed: %s", err)
	}
	if out.Journal.Path != "b.mlog" {
		t.Errorf("Journal.Path: got %s", out.Journal.Path)
	}
	if !out.Journal.Compress {
		t.Errorf("Journal.Compress lost after SetKeyValue")
	}

	// setting the same key again replaces the value
	conf.SetKeyValue("Journal.Path", "c.mlog")
	if v := conf.GetValue("Journal.Path"); v != "c.mlog" {
		t.Errorf("Journal.Path after reset: got %v", v)
	}
}

func TestMergeSectionValueCollision(t *testing.T) {
	var conf Config
	if err := conf.ReadFromTomlBytes([]byte("[Journal]\nPath = \"a.mlog\"\n")); err != nil {
		t.Fatal(err)
	}
	overrides := &Config{}
	if err := overrides.ReadFromTomlBytes([]byte("Journal = \"a.mlog\"\n")); err != nil {
		t.Fatal(err)
	}
	if err := conf.Merge(overrides); err == nil {
		t.Error("expect an error merging a value over a section")
	}
}

func TestWriteToKVList(t *testing.T) {
	base := defaultTestConfig()
	var conf Config
	if err := conf.ReadFrom(&base); err != nil {
		t.Fatalf("ReadFrom failed: %s", err)
	}
	var buf bytes.Buffer
	conf.WriteToKVList(&buf)
	out := buf.String()
	if !strings.Contains(out, "NumExecutor=1") {
		t.Errorf("missing NumExecutor in %q", out)
	}
	if !strings.Contains(out, "Journal.Compress=true") {
		t.Errorf("missing dotted Journal.Compress in %q", out)
	}
}

func TestWriteToToml(t *testing.T) {
	base := defaultTestConfig()
	var conf Config
	if err := conf.ReadFrom(&base); err != nil {
		t.Fatalf("ReadFrom failed: %s", err)
	}

	var buf bytes.Buffer
	if err := conf.WriteToToml(&buf); err != nil {
		t.Fatalf("WriteToToml failed: %s", err)
	}
	text := buf.String()
	if !strings.Contains(text, "NumExecutor = 1") {
		t.Errorf("missing NumExecutor in\n%s", text)
	}
	if !strings.Contains(text, "[Journal]") {
		t.Errorf("missing Journal table in\n%s", text)
	}

	round := &Config{}
	if err := round.ReadFromTomlBytes(buf.Bytes()); err != nil {
		t.Fatalf("re-read failed: %s", err)
	}
	if v := round.GetValue("Journal.Compress"); v != true {
		t.Errorf("Journal.Compress after round trip: got %v", v)
	}
}

func TestGetConfigSection(t *testing.T) {
	var conf Config
	err := conf.ReadFromTomlBytes([]byte(`
Name = "fixload"

[Journal]
Path = "x.mlog"
SyncEvery = 100
`))
	if err != nil {
		t.Fatalf("ReadFromTomlBytes failed: %s", err)
	}

	section, err := conf.GetConfig("Journal")
	if err != nil {
		t.Fatalf("GetConfig failed: %s", err)
	}
	if v := section.GetValue("Path"); v != "x.mlog" {
		t.Errorf("section Path: got %v", v)
	}
	if v := section.GetValue("SyncEvery"); v != int64(100) {
		t.Errorf("section SyncEvery: got %v", v)
	}
}
