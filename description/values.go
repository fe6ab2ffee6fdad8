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

package description

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/google/extgen"
)

const (
	kindBuilt     = "built"
	kindGenerated = "generated"
)

// pathType is the value of output() and built().  Plain strings are source
// files.
var pathType = cty.Object(map[string]cty.Type{
	"kind":  cty.String,
	"node":  cty.String,
	"index": cty.Number,
	"path":  cty.String,
})

func pathVal(kind, node string, index int, path string) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"kind":  cty.StringVal(kind),
		"node":  cty.StringVal(node),
		"index": cty.NumberIntVal(int64(index)),
		"path":  cty.StringVal(path),
	})
}

func (in *Interpreter) evalContext(ctx context.Context, dir string) *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"output":          in.outputFunc(),
			"built":           builtFunc(dir),
			"cxxrtl_includes": in.includesFunc(ctx),
			"cxxrtl_sources":  in.sourcesFunc(ctx),
			"concat":          stdlib.ConcatFunc,
			"format":          stdlib.FormatFunc,
			"join":            stdlib.JoinFunc,
		},
	}
}

// output(node, index) refers to the index'th output of a node declared
// earlier.
func (in *Interpreter) outputFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "node", Type: cty.String},
			{Name: "index", Type: cty.Number},
		},
		Type: function.StaticReturnType(pathType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			name := args[0].AsString()
			var index int
			if err := gocty.FromCtyValue(args[1], &index); err != nil {
				return cty.NilVal, function.NewArgError(1, err)
			}
			n := in.graph.Lookup(name)
			if n == nil {
				return cty.NilVal, function.NewArgErrorf(0, "no node named %q has been declared", name)
			}
			p, err := n.Output(index)
			if err != nil {
				return cty.NilVal, function.NewArgError(1, err)
			}
			return pathVal(kindGenerated, name, index, p.BuildRel(in.graph.Paths())), nil
		},
	})
}

// built(path) refers to a file in the build directory of the description.
func builtFunc(dir string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "path", Type: cty.String},
		},
		Type: function.StaticReturnType(pathType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			p := args[0].AsString()
			if p == "" || filepath.IsAbs(p) {
				return cty.NilVal, function.NewArgErrorf(0, "must be a non-empty relative path")
			}
			return pathVal(kindBuilt, "", 0, filepath.Join(dir, p)), nil
		},
	})
}

func (in *Interpreter) includesFunc(ctx context.Context) function.Function {
	return function.New(&function.Spec{
		Type: function.StaticReturnType(cty.String),
		Impl: func([]cty.Value, cty.Type) (cty.Value, error) {
			if in.modules.CXXRTL == nil {
				return cty.NilVal, errors.New("cxxrtl support is not configured")
			}
			dir, err := in.modules.CXXRTL.Includes(ctx)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.StringVal(dir), nil
		},
	})
}

func (in *Interpreter) sourcesFunc(ctx context.Context) function.Function {
	return function.New(&function.Spec{
		Type: function.StaticReturnType(cty.List(cty.String)),
		Impl: func([]cty.Value, cty.Type) (cty.Value, error) {
			if in.modules.CXXRTL == nil {
				return cty.NilVal, errors.New("cxxrtl support is not configured")
			}
			srcs, err := in.modules.CXXRTL.Sources(ctx)
			if err != nil {
				return cty.NilVal, err
			}
			vals := make([]cty.Value, len(srcs))
			for i, s := range srcs {
				vals[i] = cty.StringVal(s)
			}
			return cty.ListVal(vals), nil
		},
	})
}

func value(evalCtx *hcl.EvalContext, expr hcl.Expression) (cty.Value, error) {
	v, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if !v.IsWhollyKnown() {
		return cty.NilVal, errors.New("value is not known")
	}
	return v, nil
}

// path converts a value to a PathSpec.  Strings are files in the source
// directory dir.
func (in *Interpreter) path(dir string, v cty.Value) (extgen.PathSpec, error) {
	if v.IsNull() {
		return nil, errors.New("file name is null")
	}

	switch {
	case v.Type() == cty.String:
		s := v.AsString()
		if s == "" {
			return nil, errors.New("empty file name")
		}
		return extgen.NewSourcePath(dir, s), nil

	case v.Type().Equals(pathType):
		attrs := v.AsValueMap()
		switch attrs["kind"].AsString() {
		case kindBuilt:
			return extgen.NewBuiltPath(attrs["path"].AsString()), nil
		case kindGenerated:
			name := attrs["node"].AsString()
			n := in.graph.Lookup(name)
			if n == nil {
				return nil, fmt.Errorf("no node named %q", name)
			}
			var index int
			if err := gocty.FromCtyValue(attrs["index"], &index); err != nil {
				return nil, err
			}
			return n.Output(index)
		}
	}

	return nil, fmt.Errorf("expected a file name, output() or built(), got %s", v.Type().FriendlyName())
}

// paths converts a single path or a sequence of paths.  A null value is an
// empty list.
func (in *Interpreter) paths(dir string, v cty.Value) ([]extgen.PathSpec, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.CanIterateElements() || v.Type().IsObjectType() || v.Type().IsMapType() {
		p, err := in.path(dir, v)
		if err != nil {
			return nil, err
		}
		return []extgen.PathSpec{p}, nil
	}

	var paths []extgen.PathSpec
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		p, err := in.path(dir, elem)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// args converts a sequence of command arguments.  Strings are literal text
// that may hold placeholders; output() and built() values are paths.
func (in *Interpreter) args(dir string, v cty.Value) ([]extgen.Arg, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.Type().IsListType() && !v.Type().IsTupleType() {
		return nil, fmt.Errorf("expected a list of arguments, got %s", v.Type().FriendlyName())
	}

	var args []extgen.Arg
	for it := v.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() {
			return nil, errors.New("argument is null")
		}
		switch {
		case elem.Type().Equals(pathType):
			p, err := in.path(dir, elem)
			if err != nil {
				return nil, err
			}
			args = append(args, extgen.PathArg(p))
		case elem.Type() == cty.String:
			args = append(args, extgen.Text(elem.AsString()))
		case elem.Type() == cty.Number || elem.Type() == cty.Bool:
			s, err := convert.Convert(elem, cty.String)
			if err != nil {
				return nil, err
			}
			args = append(args, extgen.Text(s.AsString()))
		default:
			return nil, fmt.Errorf("unsupported argument of type %s", elem.Type().FriendlyName())
		}
	}
	return args, nil
}
