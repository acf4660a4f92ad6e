package gate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for streamgate end-to-end tests.
 * This includes container setup, HTTP helpers, and assertions.
 */

const (
	testImageName = "streamgate-test:latest"

	tokenSecret      = "e2e-token-secret-0123456789abcdef"
	encryptionSecret = "e2e-encryption-secret-0123456789"
	allowedDomain    = "dramatize.example"
	goodReferer      = "https://dramatize.example/watch/ep1"
	testIP           = "1.2.3.4"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building streamgate Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up streamgate Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/streamgate/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupGateContainer starts streamgate in a container with the test media
// fixtures mounted and returns the base URL. extraEnv entries override the
// defaults, which relax rate limits so functional tests never trip them.
func setupGateContainer(t *testing.T, extraEnv map[string]string) string {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"STREAMGATE_TOKEN_SECRET":      tokenSecret,
		"STREAMGATE_ENCRYPTION_SECRET": encryptionSecret,
		"STREAMGATE_ALLOWED_DOMAINS":   allowedDomain,
		"STREAMGATE_MEDIA_ROOT":        "/videos",
		"STREAMGATE_DATABASE_FILE":     "/tmp/streamgate.db",
		"STREAMGATE_SEED_VIDEOS":       "ep1:First Episode,ep2:Second Episode",
		"ENV":                          "test",
		"LOG_LEVEL":                    "info",
		"LOG_FORMAT":                   "json",
		// Relax rate limits so functional tests don't trip them
		"RATELIMIT_VIDEO_REQUESTS":   "1000",
		"RATELIMIT_VIDEO_WINDOW_SEC": "60",
		"RATELIMIT_VIDEO_BURST":      "1000",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		Files: []testcontainers.ContainerFile{
			{
				HostFilePath:      "testdata/ep1",
				ContainerFilePath: "/videos/ep1",
				FileMode:          0o755,
			},
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// viewer is an HTTP client with its own cookie jar, i.e. its own session.
type viewer struct {
	baseURL string
	client  *http.Client
}

func newViewer(t *testing.T, baseURL string) *viewer {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &viewer{
		baseURL: baseURL,
		client:  &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

func (v *viewer) get(t *testing.T, path, ip, referer string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, v.baseURL+path, nil)
	require.NoError(t, err)
	req.Header.Set("X-Forwarded-For", ip)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := v.client.Do(req)
	require.NoError(t, err)
	return resp
}

type issuedToken struct {
	StreamURL string `json:"streamUrl"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// requestSecureURL posts to the issuance endpoint and returns the parsed
// response when it succeeds, or the raw response when it doesn't.
func (v *viewer) requestSecureURL(t *testing.T, userID, videoID, ip string) (issuedToken, *http.Response) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"userId": userID, "videoId": videoID})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, v.baseURL+"/api/video/secure-url", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", ip)

	resp, err := v.client.Do(req)
	require.NoError(t, err)

	if resp.StatusCode != http.StatusOK {
		return issuedToken{}, resp
	}
	defer resp.Body.Close()

	var issued issuedToken
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issued))
	return issued, nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body["error"]
}
