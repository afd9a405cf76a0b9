package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"brandcheck/internal/blob"
	"brandcheck/internal/ui"
)

type uploadOptions struct {
	server   string
	password string
	quiet    bool
}

// NewUploadCommand creates the upload command.
func NewUploadCommand(opts *RootOptions) *cobra.Command {
	uo := &uploadOptions{}

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file to a running server's blob store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, err := upload(cmd, uo, args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), opts, desc, desc.URL)
		},
	}

	cmd.Flags().StringVar(&uo.server, "server", "http://localhost:8080", "server base URL")
	cmd.Flags().StringVar(&uo.password, "password", os.Getenv("ADMIN_PASSWORD"), "sign in with this password before uploading")
	cmd.Flags().BoolVarP(&uo.quiet, "quiet", "q", false, "hide the progress bar")
	return cmd
}

func upload(cmd *cobra.Command, uo *uploadOptions, path string) (blob.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return blob.Descriptor{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return blob.Descriptor{}, fmt.Errorf("stat %s: %w", path, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return blob.Descriptor{}, err
	}
	client := &http.Client{Jar: jar, Timeout: 10 * time.Minute}
	base := strings.TrimRight(uo.server, "/")

	if uo.password != "" {
		if err := login(client, base, uo.password); err != nil {
			return blob.Descriptor{}, err
		}
	}

	var body io.Reader = f
	if !uo.quiet {
		body = ui.NewProgressReader("Uploading", info.Size(), f, cmd.ErrOrStderr())
	}

	name := filepath.Base(path)
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, base+"/api/upload-blob", body)
	if err != nil {
		return blob.Descriptor{}, err
	}
	req.ContentLength = info.Size()
	req.Header.Set("x-vercel-filename", url.PathEscape(name))
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := client.Do(req)
	if err != nil {
		return blob.Descriptor{}, fmt.Errorf("upload %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return blob.Descriptor{}, fmt.Errorf("upload %s: %s", name, serverError(resp))
	}
	var desc blob.Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return blob.Descriptor{}, fmt.Errorf("decode upload response: %w", err)
	}
	return desc, nil
}

func login(client *http.Client, base, password string) error {
	payload, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return err
	}
	resp, err := client.Post(base+"/api/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login: %s", serverError(resp))
	}
	return nil
}

func serverError(resp *http.Response) string {
	var e struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
		return resp.Status
	}
	if e.Details != "" {
		return fmt.Sprintf("%s (%s): %s", resp.Status, e.Error, e.Details)
	}
	return fmt.Sprintf("%s (%s)", resp.Status, e.Error)
}
