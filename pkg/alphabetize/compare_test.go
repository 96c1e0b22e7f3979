package alphabetize

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/siyuan-infoblox/pyaz/pkg/pyast"
)

func TestLess(t *testing.T) {
	tests := []struct {
		appNames []string
		a        string
		b        string
		want     bool
	}{
		{nil, "from pg8000.converters import BIGINT, BIGINT_ARRAY", "import pytz", true},
		{nil, "from pg8000.native import Connection", "from ._version import get_versions", true},
		{nil, "from ._version import get_versions", "from pg8000.native import Connection", false},
		{nil, "import scramp", "import uuid", true},
		{nil, "import uuid", "import scramp", false},
		{nil, "import time", "from collections import OrderedDict", false},
		{nil, "from pg8000.converters import pg_interval_in", "import pg8000.dbapi", true},
		{nil, "from __future__ import print_function", "import decimal", true},
		{nil, "import decimal", "from __future__ import print_function", false},
		{nil, "from pg8000.converters import ARRAY", "from pg8000.converters import BIGINT", false},
		{nil, "from pg8000.converters import BIGINT", "from pg8000.converters import ARRAY", false},
		{[]string{"pg8000"}, "import scramp", "import pg8000", true},
		{[]string{"pg8000"}, "import pg8000", "import scramp", false},
		{[]string{"pg8000"}, "import pg8000.native", "from . import x", true},
		{[]string{"pg8000.native"}, "import pg8000.core", "import pg8000.native", true},
		{[]string{"pg8000"}, "import pg8000x", "import pg8000", true},
		{nil, "from . import scramp", "from .version import ver", true},
		{nil, "from .z import a", "from .. import a", true},
		{nil, "from .. import a", "from .z import a", false},
		{nil, "from pg8000 import x", "import pg8000", true},
		{nil, "import pg8000", "from pg8000 import x", false},
		{nil, "import Zope", "import alpha", true},
		{nil, "import numpy", "import numpy as np", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v/%s<%s", tt.appNames, tt.a, tt.b), func(t *testing.T) {
			req := require.New(t)
			cfg := Config{AppNames: tt.appNames}
			req.Equal(tt.want, Less(cfg, record(t, tt.a), record(t, tt.b)))
		})
	}
}

func TestConfig_Bucket(t *testing.T) {
	cfg := Config{AppNames: []string{"pg8000", "scramp.core"}}

	tests := []struct {
		src  string
		want Bucket
	}{
		{"import os", BucketThirdParty},
		{"import pg8000", BucketApplication},
		{"from pg8000.native import Connection", BucketApplication},
		{"import pg8000x", BucketThirdParty},
		{"import scramp", BucketThirdParty},
		{"from scramp.core import ScramClient", BucketApplication},
		{"from . import x", BucketRelative},
		{"from ..pg8000 import x", BucketRelative},
		{"from __future__ import annotations", BucketThirdParty},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.want, cfg.Bucket(record(t, tt.src)))
		})
	}
}

func TestSort(t *testing.T) {
	req := require.New(t)
	cfg := Config{AppNames: []string{"app"}}

	mod := parse(t, `from .b import x
import app.core
from . import y
import zlib
from app import z
from os import path
from __future__ import annotations
import os
from .. import w
`)
	records, _ := Extract(mod)
	Sort(cfg, records)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.String()
	}

	req.Equal([]string{
		"from __future__ import annotations",
		"from os import path",
		"import os",
		"import zlib",
		"from app import z",
		"import app.core",
		"from . import y",
		"from .b import x",
		"from .. import w",
	}, got)
}

// randomRecord builds an arbitrary but well-formed record.
func randomRecord(rng *rand.Rand) ImportRecord {
	segments := []string{"a", "app", "b", "os", "Z", "a_b", "pg8000"}
	path := func() string {
		parts := make([]string, 1+rng.IntN(3))
		for i := range parts {
			parts[i] = segments[rng.IntN(len(segments))]
		}
		return strings.Join(parts, ".")
	}
	alias := func() string {
		if rng.IntN(4) == 0 {
			return segments[rng.IntN(len(segments))]
		}
		return ""
	}
	pos := pyast.Position{Line: 1 + rng.IntN(5), Column: rng.IntN(2)}

	switch rng.IntN(4) {
	case 0:
		return ImportRecord{Kind: KindPlain, Module: path(), Alias: alias(), Pos: pos}
	case 1:
		return ImportRecord{
			Kind:   KindFrom,
			Origin: pyast.FutureModule,
			Names:  []ImportedName{{Name: segments[rng.IntN(len(segments))]}},
			Future: true,
			Pos:    pos,
		}
	default:
		r := ImportRecord{Kind: KindFrom, Level: rng.IntN(3), Pos: pos}
		if r.Level == 0 || rng.IntN(2) == 0 {
			r.Origin = path()
		}
		for range 1 + rng.IntN(3) {
			r.Names = append(r.Names, ImportedName{Name: segments[rng.IntN(len(segments))], Alias: alias()})
		}
		return r
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestCompare_orderProperties(t *testing.T) {
	req := require.New(t)
	rng := rand.New(rand.NewPCG(1, 2))
	cfg := Config{AppNames: []string{"app", "pg8000"}}

	records := make([]ImportRecord, 60)
	for i := range records {
		records[i] = randomRecord(rng)
	}

	for _, a := range records {
		req.Zero(Compare(cfg, a, a), "Compare(%s, %s) must be 0", a, a)
		req.Zero(CompareTotal(cfg, a, a))
		req.False(Less(cfg, a, a), "%s < %s", a, a)

		for _, b := range records {
			req.Equal(sign(Compare(cfg, a, b)), -sign(Compare(cfg, b, a)), "Compare antisymmetry for %s, %s", a, b)
			req.Equal(sign(CompareTotal(cfg, a, b)), -sign(CompareTotal(cfg, b, a)), "CompareTotal antisymmetry for %s, %s", a, b)

			if CompareTotal(cfg, a, b) == 0 {
				req.Equal(a, b, "CompareTotal ties only identical records")
			}

			if Compare(cfg, a, b) == 0 && a.Kind == KindFrom && b.Kind == KindFrom {
				req.True(a.SameOrigin(b), "equal from-imports must share an origin: %s, %s", a, b)
			}

			for _, c := range records {
				if Compare(cfg, a, b) <= 0 && Compare(cfg, b, c) <= 0 {
					req.LessOrEqual(Compare(cfg, a, c), 0, "Compare transitivity for %s, %s, %s", a, b, c)
				}
				if CompareTotal(cfg, a, b) < 0 && CompareTotal(cfg, b, c) < 0 {
					req.Negative(CompareTotal(cfg, a, c), "CompareTotal transitivity for %s, %s, %s", a, b, c)
				}
			}
		}
	}
}

func TestSort_idempotentAndDeterministic(t *testing.T) {
	req := require.New(t)
	rng := rand.New(rand.NewPCG(7, 11))
	cfg := Config{AppNames: []string{"app"}}

	for range 20 {
		records := make([]ImportRecord, 25)
		for i := range records {
			records[i] = randomRecord(rng)
		}

		once := slices.Clone(records)
		Sort(cfg, once)

		twice := slices.Clone(once)
		Sort(cfg, twice)
		req.Equal(once, twice)

		shuffled := slices.Clone(records)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		Sort(cfg, shuffled)
		req.Equal(once, shuffled)

		req.True(slices.IsSortedFunc(once, func(a, b ImportRecord) int { return Compare(cfg, a, b) }))
	}
}
