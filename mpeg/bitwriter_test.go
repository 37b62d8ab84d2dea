package mpeg

import "testing"

func TestBitWriterPacksAcrossByteBoundaries(t *testing.T) {
	buf := make([]byte, 4)
	w := NewBitWriter(buf)
	w.Write(0x2, 4)   // 0010
	w.Write(0x5, 3)   // 101
	w.Write(1, 1)     // 1            -> byte0 = 0010 1011 = 0x2B
	w.Write(0x1234, 16)                // byte1,2 = 0x12, 0x34
	w.Write(1, 1)     // 1
	w.Write(0, 7)     // 0000000      -> byte3 = 1000 0000 = 0x80

	if got, want := w.Position(), 4; got != want {
		t.Fatalf("Position() = %d, want %d", got, want)
	}

	want := []byte{0x2B, 0x12, 0x34, 0x80}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %#x, want %#x", i, buf[i], want[i])
		}
	}
}

func TestBitWriterSingleByteField(t *testing.T) {
	buf := make([]byte, 1)
	w := NewBitWriter(buf)
	w.Write(0xF, 4)
	w.Write(0x3, 4)
	if buf[0] != 0xF3 {
		t.Fatalf("buf[0] = %#x, want 0xf3", buf[0])
	}
}

func TestBitWriterWriteBytesRequiresAlignment(t *testing.T) {
	buf := make([]byte, 5)
	w := NewBitWriter(buf)
	w.Write(0xAB, 8)
	w.WriteBytes([]byte{1, 2, 3, 4})
	want := []byte{0xAB, 1, 2, 3, 4}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %#x, want %#x", i, buf[i], want[i])
		}
	}
}

func TestBitWriterFlushIsIdempotentOnByteBoundary(t *testing.T) {
	buf := make([]byte, 2)
	w := NewBitWriter(buf)
	w.Write(0xFF, 8)
	w.Flush()
	w.Flush()
	if w.Position() != 1 {
		t.Fatalf("Position() = %d, want 1", w.Position())
	}
}
