package cache

import (
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key("enrich", "Chennai")
	k2 := Key("enrich", "Chennai")
	if k1 != k2 {
		t.Errorf("expected deterministic keys, got %s and %s", k1, k2)
	}

	if Key("enrich", "Chennai") == Key("search", "Chennai") {
		t.Error("expected kind to namespace the key")
	}
	if Key("enrich", "Chennai") == Key("enrich", "Mumbai") {
		t.Error("expected input to vary the key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("enrich", "mumbai")
	if _, found := c.Get(key); found {
		t.Error("expected miss on empty cache")
	}

	if err := c.Set(key, []byte("conditions"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(val) != "conditions" {
		t.Errorf("expected %q, got %q", "conditions", val)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expected miss after Delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("enrich", "delhi")
	if err := c.Set(key, []byte("stale"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	c1 := NewDiskCache(dir, time.Hour)
	key := Key("enrich", "tokyo")
	if err := c1.Set(key, []byte("typhoon watch"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// A fresh handle over the same directory sees the entry
	c2 := NewDiskCache(dir, time.Hour)
	val, found := c2.Get(key)
	if !found {
		t.Fatal("expected hit from fresh cache over same dir")
	}
	if string(val) != "typhoon watch" {
		t.Errorf("expected %q, got %q", "typhoon watch", val)
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	key := Key("enrich", "osaka")
	if err := c.Set(key, []byte("stale"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed disk only
	disk := NewDiskCache(dir, time.Hour)
	key := Key("enrich", "manila")
	if err := disk.Set(key, []byte("storm signal 3"), 0); err != nil {
		t.Fatalf("seed disk: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Hour)

	val, found := layered.Get(key)
	if !found {
		t.Fatal("expected layered cache to hit via disk")
	}
	if string(val) != "storm signal 3" {
		t.Errorf("expected %q, got %q", "storm signal 3", val)
	}

	// After promotion, memory answers even with the disk entry gone
	if err := disk.Delete(key); err != nil {
		t.Fatalf("delete disk entry: %v", err)
	}
	if _, found := layered.Get(key); !found {
		t.Error("expected promoted entry to hit from memory")
	}
}

func TestLayeredCache_SetWritesBothLayers(t *testing.T) {
	dir := t.TempDir()
	layered := NewLayeredCache(time.Minute, dir, time.Hour)

	key := Key("search", "flood mumbai")
	if err := layered.Set(key, []byte("evidence"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	disk := NewDiskCache(dir, time.Hour)
	if _, found := disk.Get(key); !found {
		t.Error("expected Set to persist to the disk layer")
	}
}
