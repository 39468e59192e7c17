package frame

import (
	"image"
	"image/color"
	"math/rand"
	"reflect"
	"testing"
)

func TestPackMSBFirst(t *testing.T) {
	testCases := []struct {
		name string
		bits []bool
		want []byte
	}{
		{
			name: "first pixel is the high bit",
			bits: []bool{true, false, false, false, false, false, false, false},
			want: []byte{0x80},
		},
		{
			name: "eighth pixel is the low bit",
			bits: []bool{false, false, false, false, false, false, false, true},
			want: []byte{0x01},
		},
		{
			name: "all eight bits are kept",
			bits: []bool{true, true, true, true, true, true, true, true},
			want: []byte{0xff},
		},
		{
			name: "partial last byte is zero padded",
			bits: []bool{true, false, true, false, true, false, true, false, true, true},
			want: []byte{0xaa, 0xc0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Pack(tc.bits)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %08b, want %08b", got, tc.want)
			}
		})
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for w := 1; w <= 17; w++ {
		for h := 1; h <= 9; h++ {
			bits := make([]bool, w*h)
			for i := range bits {
				bits[i] = rng.Intn(2) == 1
			}
			payload := Pack(bits)
			if len(payload) != PayloadSize(w, h) {
				t.Fatalf("%dx%d: payload %d bytes, want %d", w, h, len(payload), PayloadSize(w, h))
			}
			got := Unpack(payload, w*h)
			if !reflect.DeepEqual(got, bits) {
				t.Fatalf("%dx%d: round trip mismatch", w, h)
			}

			b, err := FromPayload(w, h, payload)
			if err != nil {
				t.Fatal(err)
			}
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					if b.On(x, y) != bits[y*w+x] {
						t.Fatalf("%dx%d: On(%d,%d) mismatch", w, h, x, y)
					}
				}
			}
		}
	}
}

func TestFromPayloadSizeMismatch(t *testing.T) {
	if _, err := FromPayload(16, 8, make([]byte, 15)); err == nil {
		t.Error("expected an error for a short payload")
	}
}

func TestSetAndOutOfBounds(t *testing.T) {
	b := New(3, 3)
	b.Set(2, 1, true)
	if !b.On(2, 1) {
		t.Error("On(2,1) = false after Set")
	}
	b.Set(2, 1, false)
	if b.On(2, 1) {
		t.Error("On(2,1) = true after clear")
	}
	if b.On(-1, 0) || b.On(3, 0) || b.On(0, 3) {
		t.Error("out of bounds pixels must be off")
	}
}

func TestThreshold(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 1))
	gray.Pix = []byte{0, 127, 128, 255}

	rgba := image.NewRGBA(image.Rect(0, 0, 4, 1))
	for x, v := range gray.Pix {
		rgba.Set(x, 0, color.RGBA{v, v, v, 255})
	}

	testCases := []struct {
		name   string
		img    image.Image
		invert bool
		want   []bool
	}{
		{name: "gray", img: gray, want: []bool{false, false, true, true}},
		{name: "gray inverted", img: gray, invert: true, want: []bool{true, true, false, false}},
		{name: "rgba", img: rgba, want: []bool{false, false, true, true}},
		{name: "sub image", img: gray.SubImage(image.Rect(2, 0, 4, 1)), want: []bool{true, true}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := Threshold(tc.img, 128, tc.invert)
			got := Unpack(b.Bits, b.Width*b.Height)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
