// Copyright 2026 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// extgenfmt formats build description files.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/extgen/description"
)

var (
	// main operation modes
	list                = flag.Bool("l", false, "list files whose formatting differs from extgenfmt's")
	overwriteSourceFile = flag.Bool("w", false, "write result to (source) file")
	writeToStout        = flag.Bool("o", false, "write result to stdout")
	doDiff              = flag.Bool("d", false, "display diffs instead of rewriting files")
	descriptionName     = flag.String("n", description.DefaultFile, "name of the description files to look for in directories")
)

var (
	exitCode = 0
)

func report(err error) {
	fmt.Fprintln(os.Stderr, err)
	exitCode = 2
}

func usage() {
	usageViolation("")
}

func usageViolation(violation string) {
	fmt.Fprintln(os.Stderr, violation)
	fmt.Fprintln(os.Stderr, "usage: extgenfmt [flags] [path ...]")
	flag.PrintDefaults()
	os.Exit(2)
}

func processFile(filename string, out io.Writer) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return processReader(filename, f, out)
}

func processReader(filename string, in io.Reader, out io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	res, err := description.Format(filename, src)
	if err != nil {
		return err
	}

	if !bytes.Equal(src, res) {
		// formatting has changed
		if *list {
			fmt.Fprintln(out, filename)
		}
		if *overwriteSourceFile {
			err = os.WriteFile(filename, res, 0644)
			if err != nil {
				return err
			}
		}
		if *doDiff {
			data, err := diff(src, res)
			if err != nil {
				return fmt.Errorf("computing diff: %s", err)
			}
			fmt.Fprintf(out, "diff %s extgenfmt/%s\n", filename, filename)
			out.Write(data)
		}
	}

	if !*list && !*overwriteSourceFile && !*doDiff {
		_, err = out.Write(res)
	}

	return err
}

func walkDir(path string) {
	visitFile := func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && d.Name() == *descriptionName {
			err = processFile(path, os.Stdout)
		}
		if err != nil {
			report(err)
		}
		return nil
	}

	filepath.WalkDir(path, visitFile)
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if !*writeToStout && !*overwriteSourceFile && !*doDiff && !*list {
		usageViolation("one of -d, -l, -o, or -w is required")
	}

	if flag.NArg() == 0 {
		// file to parse is stdin
		if *overwriteSourceFile {
			fmt.Fprintln(os.Stderr, "error: cannot use -w with standard input")
			os.Exit(2)
		}
		if err := processReader("<standard input>", os.Stdin, os.Stdout); err != nil {
			report(err)
		}
		os.Exit(exitCode)
	}

	for i := 0; i < flag.NArg(); i++ {
		path := flag.Arg(i)
		switch dir, err := os.Stat(path); {
		case err != nil:
			report(err)
		case dir.IsDir():
			walkDir(path)
		default:
			if err := processFile(path, os.Stdout); err != nil {
				report(err)
			}
		}
	}

	os.Exit(exitCode)
}

func diff(b1, b2 []byte) (data []byte, err error) {
	f1, err := os.CreateTemp("", "extgenfmt")
	if err != nil {
		return
	}
	defer os.Remove(f1.Name())
	defer f1.Close()

	f2, err := os.CreateTemp("", "extgenfmt")
	if err != nil {
		return
	}
	defer os.Remove(f2.Name())
	defer f2.Close()

	f1.Write(b1)
	f2.Write(b2)

	data, err = exec.Command("diff", "-u", f1.Name(), f2.Name()).CombinedOutput()
	if len(data) > 0 {
		// diff exits with a non-zero status when the files don't match.
		// Ignore that failure as long as we get output.
		err = nil
	}
	return
}
