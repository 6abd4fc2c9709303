package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)

	if p.Pages != 3 {
		t.Errorf("pages = %d, want 3", p.Pages)
	}
	if !p.HasNext || !p.HasPrev {
		t.Errorf("has_next = %v, has_prev = %v, want both true on a middle page", p.HasNext, p.HasPrev)
	}
	if p.NextNum == nil || *p.NextNum != 3 {
		t.Errorf("next_num = %v, want 3", p.NextNum)
	}
	if p.PrevNum == nil || *p.PrevNum != 1 {
		t.Errorf("prev_num = %v, want 1", p.PrevNum)
	}
	if p.Offset() != 10 {
		t.Errorf("offset = %d, want 10", p.Offset())
	}
}

func TestNewPaginationEdges(t *testing.T) {
	first := NewPagination(1, 10, 25)
	if first.HasPrev || first.PrevNum != nil {
		t.Error("first page must not report a previous page")
	}

	last := NewPagination(3, 10, 25)
	if last.HasNext || last.NextNum != nil {
		t.Error("last page must not report a next page")
	}

	empty := NewPagination(1, 10, 0)
	if empty.Pages != 0 || empty.HasNext {
		t.Errorf("empty set: pages = %d, has_next = %v", empty.Pages, empty.HasNext)
	}
}

func TestParsePageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(query string) *gin.Context {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest("GET", "/?"+query, nil)
		return ctx
	}

	t.Run("explicit values", func(t *testing.T) {
		page, perPage, err := ParsePageParams(newCtx("page=2&per_page=5"), 10, 50)
		if err != nil || page != 2 || perPage != 5 {
			t.Errorf("got page=%d per_page=%d err=%v", page, perPage, err)
		}
	})

	t.Run("defaults on missing or garbage input", func(t *testing.T) {
		page, perPage, err := ParsePageParams(newCtx("page=abc&per_page=xyz"), 10, 50)
		if err != nil || page != 1 || perPage != 10 {
			t.Errorf("got page=%d per_page=%d err=%v", page, perPage, err)
		}
	})

	t.Run("clamps to maximum", func(t *testing.T) {
		_, perPage, err := ParsePageParams(newCtx("per_page=500"), 10, 50)
		if err != nil || perPage != 50 {
			t.Errorf("got per_page=%d err=%v", perPage, err)
		}
	})

	t.Run("rejects values below one", func(t *testing.T) {
		if _, _, err := ParsePageParams(newCtx("page=0"), 10, 50); err == nil {
			t.Error("page=0 should be rejected")
		}
		if _, _, err := ParsePageParams(newCtx("per_page=-1"), 10, 50); err == nil {
			t.Error("per_page=-1 should be rejected")
		}
	})
}
