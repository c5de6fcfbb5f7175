// Copyright 2025 walteh LLC
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

package text_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/restyle/pkg/text"
)

func purpleRuleset(t *testing.T) *text.Ruleset {
	t.Helper()
	rs, err := text.NewBuilder("remove-purple").
		Add(`text-purple-\d+`, "notion-text").
		Add(`bg-purple-\d+`, "bg-gray-800").
		Add(`text-pink-\d+`, "notion-text").
		Add(`bg-pink-\d+`, "bg-gray-800").
		Add(`text-indigo-\d+`, "notion-text").
		Add(`bg-indigo-\d+`, "bg-gray-800").
		Build()
	require.NoError(t, err, "building purple ruleset should succeed")
	return rs
}

func TestSubstituter_Apply(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	tests := []struct {
		name        string
		rulesets    func(t *testing.T) []*text.Ruleset
		input       string
		want        string
		wantChanged bool
		wantCount   int
	}{
		{
			name: "single_token",
			rulesets: func(t *testing.T) []*text.Ruleset {
				return []*text.Ruleset{text.NewBuilder("headers").Add(`text-white/60`, "notion-text-secondary").MustBuild()}
			},
			input:       "text-white/60",
			want:        "notion-text-secondary",
			wantChanged: true,
			wantCount:   1,
		},
		{
			name: "unrelated_colors_untouched",
			rulesets: func(t *testing.T) []*text.Ruleset {
				return []*text.Ruleset{purpleRuleset(t)}
			},
			input:       "bg-gray-100",
			want:        "bg-gray-100",
			wantChanged: false,
		},
		{
			name: "chain_across_rules",
			rulesets: func(t *testing.T) []*text.Ruleset {
				return []*text.Ruleset{text.NewBuilder("chain").Add("A", "B").Add("B", "C").MustBuild()}
			},
			input:       "A",
			want:        "C",
			wantChanged: true,
			wantCount:   2,
		},
		{
			name: "multi_pass_rulesets",
			rulesets: func(t *testing.T) []*text.Ruleset {
				first := text.NewBuilder("first").Add(`bg-gradient-to-br from-purple-500 to-pink-500`, "bg-purple-500").MustBuild()
				return []*text.Ruleset{first, purpleRuleset(t)}
			},
			input:       `<div className="bg-gradient-to-br from-purple-500 to-pink-500">`,
			want:        `<div className="bg-gray-800">`,
			wantChanged: true,
			wantCount:   2,
		},
		{
			name: "replacement_equal_to_match",
			rulesets: func(t *testing.T) []*text.Ruleset {
				return []*text.Ruleset{text.NewBuilder("same").Add(`notion-text`, "notion-text").MustBuild()}
			},
			input:       "notion-text",
			want:        "notion-text",
			wantChanged: false,
			wantCount:   1,
		},
		{
			name: "no_rulesets",
			rulesets: func(t *testing.T) []*text.Ruleset {
				return nil
			},
			input:       "anything",
			want:        "anything",
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := text.NewSubstituter()
			res, err := sub.Apply(ctx, tt.input, tt.rulesets(t)...)
			require.NoError(t, err, "apply should succeed")
			assert.Equal(t, tt.input, res.Original, "original should be preserved")
			assert.Equal(t, tt.want, res.Modified, "modified content should match")
			assert.Equal(t, tt.wantChanged, res.Changed, "changed verdict should match")
			assert.Equal(t, tt.wantCount, res.Replacements, "replacement count should match")
		})
	}
}

func TestSubstituter_Purity(t *testing.T) {
	ctx := context.Background()
	sub := text.NewSubstituter()
	rs := purpleRuleset(t)

	input := `<span className="text-purple-600 bg-pink-100">hi</span>`
	snapshot := input

	first, err := sub.Apply(ctx, input, rs)
	require.NoError(t, err)
	second, err := sub.Apply(ctx, input, rs)
	require.NoError(t, err)

	assert.Equal(t, snapshot, input, "input should not be mutated")
	assert.Equal(t, first.Modified, second.Modified, "same input should give same output")
	assert.Equal(t, first.Hits, second.Hits, "same input should give same hits")
}

func TestSubstituter_OrderSensitivity(t *testing.T) {
	ctx := context.Background()
	sub := text.NewSubstituter()

	r1 := text.RuleSpec{Name: "r1", Pattern: `bg-gradient-to-r from-purple-600 to-pink-600`, Replacement: "bg-purple-600"}
	r2 := text.RuleSpec{Name: "r2", Pattern: `bg-purple-\d+`, Replacement: "bg-gray-800"}

	forward := text.NewBuilder("forward").AddSpec(r1).AddSpec(r2).MustBuild()
	backward := text.NewBuilder("backward").AddSpec(r2).AddSpec(r1).MustBuild()

	input := "bg-gradient-to-r from-purple-600 to-pink-600"

	a, err := sub.Apply(ctx, input, forward)
	require.NoError(t, err)
	b, err := sub.Apply(ctx, input, backward)
	require.NoError(t, err)

	assert.Equal(t, "bg-gray-800", a.Modified)
	assert.Equal(t, "bg-purple-600", b.Modified)
	assert.NotEqual(t, a.Modified, b.Modified, "rule order should matter")
}

func TestSubstituter_SecondPassIsNoop(t *testing.T) {
	ctx := context.Background()
	sub := text.NewSubstituter()
	rs := purpleRuleset(t)

	first, err := sub.Apply(ctx, `<h1 className="text-purple-400 bg-indigo-900">x</h1>`, rs)
	require.NoError(t, err)
	require.True(t, first.Changed, "first pass should migrate")

	second, err := sub.Apply(ctx, first.Modified, rs)
	require.NoError(t, err)
	assert.False(t, second.Changed, "second pass over migrated content should be a no-op")
	assert.Equal(t, first.Modified, second.Modified)
}

func TestSubstituter_NoPartialResult(t *testing.T) {
	sub := text.NewSubstituter()
	rs := purpleRuleset(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sub.Apply(ctx, "text-purple-100", rs)
	require.Error(t, err, "cancelled apply should fail")
	assert.Nil(t, res, "no partial result should be returned")

	_, err = sub.Apply(context.Background(), "x", nil)
	require.Error(t, err, "nil ruleset should be rejected")
}
