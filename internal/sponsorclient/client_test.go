package sponsorclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fr0stylo/sponsorboard/internal/app/domain"
	"github.com/fr0stylo/sponsorboard/internal/app/ports"
)

func TestClientListLevelsUsesPluginPath(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != BasePath+"/sponsors/levels/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]domain.SponsorLevel{{ID: 1, Name: "Gold"}})
	}))
	defer srv.Close()

	levels, err := New(srv.URL, "").ListLevels(context.Background())
	if err != nil {
		t.Fatalf("ListLevels error = %v", err)
	}
	if len(levels) != 1 || levels[0].Name != "Gold" {
		t.Fatalf("unexpected levels: %+v", levels)
	}
}

func TestClientSendsBearerTokenAndPartialPatch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected auth header: %s", got)
		}
		if r.Method != http.MethodPut || r.URL.Path != BasePath+"/sponsors/5" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if len(payload) != 1 || payload["name"] != "Acme Corp" {
			t.Errorf("expected only name in patch, got %v", payload)
		}
		_ = json.NewEncoder(w).Encode(domain.Sponsor{ID: 5, Name: "Acme Corp", LevelID: 1})
	}))
	defer srv.Close()

	name := "Acme Corp"
	sponsor, err := New(srv.URL, "token").UpdateSponsor(context.Background(), 5, domain.SponsorPatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateSponsor error = %v", err)
	}
	if sponsor.Name != "Acme Corp" {
		t.Fatalf("unexpected sponsor: %+v", sponsor)
	}
}

func TestClientMapsErrorDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Sponsor not found"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, "token").DeleteSponsor(context.Background(), 9)
	if !IsStatus(err, http.StatusNotFound) {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	apiErr := err.(*APIError)
	if apiErr.Detail != "Sponsor not found" {
		t.Fatalf("unexpected detail %q", apiErr.Detail)
	}
}

func TestClientUploadMediaSendsMultipartFile(t *testing.T) {
	t.Parallel()

	const id = "3f1c2a4e-8b9d-4c1e-a2f3-0123456789ab"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/media/"+id {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("read form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "logo.png" || string(data) != "png-bytes" {
			t.Errorf("unexpected upload %q %q", header.Filename, data)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := New(srv.URL, "token")
	err := client.UploadMedia(context.Background(), id, ports.LogoFile{Name: "logo.png", ContentType: "image/png", Data: []byte("png-bytes")})
	if err != nil {
		t.Fatalf("UploadMedia error = %v", err)
	}
	if got := client.MediaURL(id); got != srv.URL+"/media/"+id {
		t.Fatalf("unexpected media url %q", got)
	}
}

func TestErrorDetailFallsBackToBody(t *testing.T) {
	if got := errorDetail([]byte(`{"message":"Unauthorized"}`)); got != "Unauthorized" {
		t.Fatalf("unexpected detail %q", got)
	}
	if got := errorDetail([]byte("  bad gateway \n")); got != "bad gateway" {
		t.Fatalf("unexpected detail %q", got)
	}
}
