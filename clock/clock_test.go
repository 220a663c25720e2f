// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMock(t *testing.T) {
	var c Clock = NewMock(100)
	assert.Equal(t, uint64(100), c.Now())

	m := c.(*Mock)
	m.Advance(86400)
	assert.Equal(t, uint64(86500), m.Now())
	m.Set(5)
	assert.Equal(t, uint64(5), m.Now())
}

func TestFixed(t *testing.T) {
	var c Clock = Fixed(42)
	assert.Equal(t, uint64(42), c.Now())
	assert.Equal(t, uint64(42), c.Now())
}

func TestSystem(t *testing.T) {
	s := NewSystem()
	assert.Equal(t, time.Duration(0), s.Offset())

	before := uint64(time.Now().Unix())
	now := s.Now()
	assert.GreaterOrEqual(t, now, before)
	assert.LessOrEqual(t, now, uint64(time.Now().Unix()))

	s.offset.Store(int64(time.Hour))
	assert.GreaterOrEqual(t, s.Now(), before+3600)
}

func TestSystemAdopt(t *testing.T) {
	s := NewSystem()
	tolerance := 5 * time.Second

	s.adopt(2*time.Second, tolerance)
	assert.Equal(t, time.Duration(0), s.Offset(), "within tolerance")

	s.adopt(-time.Minute, tolerance)
	assert.Equal(t, -time.Minute, s.Offset())

	s.adopt(10*time.Second, tolerance)
	assert.Equal(t, 10*time.Second, s.Offset(), "replaced, not accumulated")

	s.adopt(time.Second, tolerance)
	assert.Equal(t, time.Duration(0), s.Offset(), "cleared once the local clock is good")
}
