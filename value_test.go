package cachette

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	t.Run("Kind", func(t *testing.T) {
		assert.Equal(t, ValueKindString, NewStringValue("text").Kind())
		assert.Equal(t, ValueKindDocument, NewDocumentValue(map[string]interface{}{"key": "value"}).Kind())
		assert.Equal(t, ValueKindBinary, NewBinaryValue([]byte{0x1}).Kind())
	})
	t.Run("IsZero", func(t *testing.T) {
		assert.True(t, Value{}.IsZero())
		assert.False(t, NewStringValue("").IsZero())
		assert.False(t, NewBinaryValue([]byte{}).IsZero())
	})
	t.Run("Equal", func(t *testing.T) {
		t.Run("ComparesStringsByContent", func(t *testing.T) {
			assert.True(t, NewStringValue("hunter2").Equal(NewStringValue("hunter2")))
			assert.False(t, NewStringValue("hunter2").Equal(NewStringValue("hunter3")))
		})
		t.Run("ComparesDocumentsStructurally", func(t *testing.T) {
			a := NewDocumentValue(map[string]interface{}{"user": "admin", "count": float64(3)})
			b := NewDocumentValue(map[string]interface{}{"count": float64(3), "user": "admin"})
			c := NewDocumentValue(map[string]interface{}{"user": "admin", "count": float64(4)})
			assert.True(t, a.Equal(b))
			assert.False(t, a.Equal(c))
		})
		t.Run("ComparesNestedDocuments", func(t *testing.T) {
			a := NewDocumentValue(map[string]interface{}{"db": map[string]interface{}{"host": "localhost"}})
			b := NewDocumentValue(map[string]interface{}{"db": map[string]interface{}{"host": "localhost"}})
			c := NewDocumentValue(map[string]interface{}{"db": map[string]interface{}{"host": "remote"}})
			assert.True(t, a.Equal(b))
			assert.False(t, a.Equal(c))
		})
		t.Run("ComparesBinaryBytewise", func(t *testing.T) {
			assert.True(t, NewBinaryValue([]byte{0x1, 0x2}).Equal(NewBinaryValue([]byte{0x1, 0x2})))
			assert.False(t, NewBinaryValue([]byte{0x1, 0x2}).Equal(NewBinaryValue([]byte{0x2, 0x1})))
		})
		t.Run("DifferentKindsAreNeverEqual", func(t *testing.T) {
			assert.False(t, NewStringValue("abc").Equal(NewBinaryValue([]byte("abc"))))
			assert.False(t, NewStringValue("{}").Equal(NewDocumentValue(map[string]interface{}{})))
		})
		t.Run("ZeroValuesAreEqual", func(t *testing.T) {
			assert.True(t, Value{}.Equal(Value{}))
			assert.False(t, Value{}.Equal(NewStringValue("")))
		})
	})
	t.Run("AsString", func(t *testing.T) {
		assert.Equal(t, "hunter2", NewStringValue("hunter2").AsString())
		assert.Equal(t, "raw", NewBinaryValue([]byte("raw")).AsString())
		assert.Empty(t, NewDocumentValue(map[string]interface{}{"key": "value"}).AsString())
	})
}
