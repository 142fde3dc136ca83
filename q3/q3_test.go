package q3

import "testing"

func TestEncodeConfidence(t *testing.T) {
	p := Prediction{Confidence: []float64{0.123, 0.3456, 0.5}}
	want := "0.123,0.346,0.500"
	if got := p.EncodeConfidence(); got != want {
		t.Fatalf("EncodeConfidence()=%q, want %q", got, want)
	}
}

func TestEncodeConfidenceEmpty(t *testing.T) {
	p := Prediction{}
	if got := p.EncodeConfidence(); got != "" {
		t.Fatalf("EncodeConfidence()=%q, want empty", got)
	}
}

func TestDecodeConfidenceRoundTrip(t *testing.T) {
	p := Prediction{Confidence: []float64{0.1, 0.2, 0.9}}
	encoded := p.EncodeConfidence()
	decoded, err := DecodeConfidence(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(p.Confidence) {
		t.Fatalf("len(decoded)=%d, want %d", len(decoded), len(p.Confidence))
	}
	for i, v := range decoded {
		if diff := v - p.Confidence[i]; diff > 0.0005 || diff < -0.0005 {
			t.Fatalf("decoded[%d]=%v, want ~%v", i, v, p.Confidence[i])
		}
	}
}

func TestDecodeConfidenceEmpty(t *testing.T) {
	decoded, err := DecodeConfidence("")
	if err != nil {
		t.Fatal(err)
	}
	if decoded != nil {
		t.Fatalf("decoded=%v, want nil", decoded)
	}
}

func TestDecodeConfidenceInvalid(t *testing.T) {
	if _, err := DecodeConfidence("0.1,oops,0.3"); err == nil {
		t.Fatal("expected error decoding a non-numeric entry")
	}
}

func TestIsEmpty(t *testing.T) {
	if !(Prediction{}).IsEmpty() {
		t.Fatal("zero Prediction should be empty")
	}
	if (Prediction{Q3: []byte{Helix}}).IsEmpty() {
		t.Fatal("Prediction with a Q3 call should not be empty")
	}
}
