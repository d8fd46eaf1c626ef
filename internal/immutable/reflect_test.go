package immutable_test

import (
	"reflect"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/licenses/internal/immutable"
)

// unexportedField returns a settable view of the named unexported field of *ptr.
func unexportedField(ptr any, name string) reflect.Value {
	v := reflect.ValueOf(ptr).Elem().FieldByName(name)
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

func TestReflectiveMutationIsDetected(t *testing.T) {
	t.Run("set", func(t *testing.T) {
		s := immutable.NewSet("export")
		ok, err := s.Contains("admin")
		require.NoError(t, err)
		require.False(t, ok)

		items := unexportedField(s, "items")
		items.SetMapIndex(reflect.ValueOf("admin"), reflect.ValueOf(struct{}{}))

		_, err = s.Contains("admin")
		assert.ErrorIs(t, err, immutable.ErrTamperDetected)
	})

	t.Run("map", func(t *testing.T) {
		m := immutable.NewMap(map[string]int64{"seats": 5})

		items := unexportedField(m, "items")
		items.SetMapIndex(reflect.ValueOf("seats"), reflect.ValueOf(int64(5000)))

		_, _, err := m.Get("seats")
		assert.ErrorIs(t, err, immutable.ErrTamperDetected)
	})

	t.Run("list replaced wholesale", func(t *testing.T) {
		l := immutable.NewList("a", "b")

		items := unexportedField(l, "items")
		items.Set(reflect.ValueOf([]string{"a", "b", "c"}))

		_, err := l.Len()
		assert.ErrorIs(t, err, immutable.ErrTamperDetected)
	})
}

func TestConcurrentReads(t *testing.T) {
	s := immutable.NewSet("a", "b", "c")
	m := immutable.NewMap(map[string]int{"a": 1})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				ok, err := s.Contains("b")
				assert.NoError(t, err)
				assert.True(t, ok)

				_, _, err = m.Get("a")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
