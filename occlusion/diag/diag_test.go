package diag

import "testing"

func TestRecordFrameAccumulates(t *testing.T) {
	d := NewDiagnostics()
	d.RecordFrame(5, 100, 2, 10)
	d.RecordFrame(3, 150, 1, 10)

	if have, want := d.TotalDroppedTriangles(), uint64(8); have != want {
		t.Fatalf("TotalDroppedTriangles: have %d want %d", have, want)
	}
	if have, want := d.BinHighWatermark(), 150; have != want {
		t.Fatalf("BinHighWatermark: have %d want %d", have, want)
	}
	if have, want := d.TotalCulled(), uint64(3); have != want {
		t.Fatalf("TotalCulled: have %d want %d", have, want)
	}
}

func TestBinHighWatermarkNeverDecreases(t *testing.T) {
	d := NewDiagnostics()
	d.RecordFrame(0, 200, 0, 0)
	d.RecordFrame(0, 50, 0, 0)

	if have, want := d.BinHighWatermark(), 200; have != want {
		t.Fatalf("BinHighWatermark: have %d want %d after a lower-watermark frame", have, want)
	}
}

func TestRecordFrameDoesNotLogBeforeInterval(t *testing.T) {
	d := NewDiagnostics()
	if logged := d.RecordFrame(1, 1, 1, 1); logged {
		t.Fatalf("RecordFrame: have logged=true want false immediately after creation")
	}
}
