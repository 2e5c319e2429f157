// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package split_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/split"
)

func TestStrings(t *testing.T) {
	assert.Nil(t, split.Strings(""))
	assert.Equal(t, []string{"Физкультура", "Большие идеи"}, split.Strings(" Физкультура, ,Большие идеи ,"))
}

func TestInts(t *testing.T) {
	values, err := split.Ints("5, 30")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 30}, values)

	_, err = split.Ints("5,abc")
	assert.Error(t, err)

	values, err = split.Ints("")
	require.NoError(t, err)
	assert.Empty(t, values)
}
