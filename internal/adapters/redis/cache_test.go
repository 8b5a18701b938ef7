package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "cruisewatch/internal/adapters/redis"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	type row struct {
		Code  string  `json:"code"`
		Price float64 `json:"price"`
	}

	if err := c.Set(ctx, "fares:po", []row{{Code: "X1", Price: 1120}}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got []row
	ok, err := c.Get(ctx, "fares:po", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 || got[0].Code != "X1" || got[0].Price != 1120 {
		t.Fatalf("unexpected value: %+v", got)
	}

	if err := c.Del(ctx, "fares:po"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "fares:po", &got)
	if err != nil {
		t.Fatalf("get after del: %v", err)
	}
	if ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestCache_MissOnUnknownKey(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)

	var dst map[string]any
	ok, err := c.Get(context.Background(), "nope", &dst)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}
