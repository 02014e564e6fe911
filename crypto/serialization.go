package crypto

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// FieldElementSize is the encoded size of one field element in bytes.
const FieldElementSize = 4

var (
	// ErrSerializedLength is returned when encoded data is not a whole
	// number of field elements.
	ErrSerializedLength = errors.New("serialized length is not a multiple of the element size")

	// ErrNonCanonical is returned when an encoded element is not below the modulus.
	ErrNonCanonical = errors.New("non-canonical field element")
)

// SerializeFields encodes elements as consecutive little-endian uint32 values.
func SerializeFields(elements []Field) []byte {
	out := make([]byte, 0, len(elements)*FieldElementSize)
	for _, el := range elements {
		out = binary.LittleEndian.AppendUint32(out, uint32(el))
	}
	return out
}

// DeserializeFields decodes the output of SerializeFields.
func DeserializeFields(data []byte) ([]Field, error) {
	if len(data)%FieldElementSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrSerializedLength, len(data))
	}

	res := make([]Field, len(data)/FieldElementSize)
	for i := range res {
		v := binary.LittleEndian.Uint32(data[i*FieldElementSize:])
		if v >= FieldModulus {
			return nil, fmt.Errorf("%w at index %d", ErrNonCanonical, i)
		}
		res[i] = Field(v)
	}
	return res, nil
}
