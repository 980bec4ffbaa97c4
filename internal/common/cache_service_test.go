package common

import (
	"testing"
	"time"

	"larpilot/backoffice/internal/auth"
	"larpilot/backoffice/internal/constants"
)

func TestCacheService_RoundTripsStructs(t *testing.T) {
	cache := NewCacheService(time.Minute, time.Minute)
	limit := 3
	in := &auth.Actor{
		UserID:     "u1",
		Status:     constants.AccountApproved,
		GlobalRole: constants.GlobalRoleSuperAdmin,
		Plan:       &auth.PlanQuota{Name: "premium", MaxLarps: &limit},
	}

	cache.Set("ACTOR_u1", in, time.Minute)

	var out auth.Actor
	if !cache.Get("ACTOR_u1", &out) {
		t.Fatal("Get() missed a fresh entry")
	}
	if out.UserID != "u1" || !out.IsSuperAdmin() || out.Plan == nil || *out.Plan.MaxLarps != 3 {
		t.Errorf("round trip = %+v", out)
	}
}

func TestCacheService_DeleteAndExpiry(t *testing.T) {
	cache := NewCacheService(time.Minute, time.Minute)

	cache.Set("gone", "x", time.Minute)
	cache.Delete("gone")
	var s string
	if cache.Get("gone", &s) {
		t.Error("Get() found a deleted key")
	}

	cache.Set("short", "x", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if cache.Get("short", &s) {
		t.Error("Get() found an expired key")
	}
}
