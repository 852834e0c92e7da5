package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	authToken string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "trecos: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trecos",
		Short: "Trecos admin CLI",
		Long: `Trecos CLI talks to a running trecos server: sign in, publish items,
inspect listings and drive status transitions.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Server base URL")
	cmd.PersistentFlags().StringVarP(&authToken, "token", "t", os.Getenv("TRECOS_TOKEN"), "Bearer token (defaults to $TRECOS_TOKEN)")
	cmd.AddCommand(
		newLoginCmd(),
		newListCmd(),
		newGetCmd(),
		newPublishCmd(),
		newSetStatusCmd(),
	)
	return cmd
}

func newLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := postJSON(cmd.Context(), "/api/auth/login", map[string]string{
				"username": username,
				"password": password,
			})
			if err != nil {
				return err
			}
			var resp struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(out, &resp); err != nil {
				return fmt.Errorf("decoding login response: %w", err)
			}
			fmt.Println(resp.Token)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items (active first, newest first)",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := doRequest(cmd.Context(), http.MethodGet, "/api/items", nil)
			if err != nil {
				return err
			}
			return printIndented(out)
		},
	}
}

func newGetCmd() *cobra.Command {
	var includeDeleted bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch one item by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/items/" + args[0]
			if includeDeleted {
				path += "?include_deleted=1"
			}
			out, err := doRequest(cmd.Context(), http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			return printIndented(out)
		},
	}
	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "Fetch the item even when retired (admin only)")
	return cmd
}

func newPublishCmd() *cobra.Command {
	var name, description, location, photoPath string
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a new item, optionally with a photo file",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"name":        name,
				"description": description,
				"location":    location,
			}
			if photoPath != "" {
				data, err := os.ReadFile(photoPath)
				if err != nil {
					return fmt.Errorf("reading photo: %w", err)
				}
				format := strings.TrimPrefix(filepath.Ext(photoPath), ".")
				if format == "jpg" {
					format = "jpeg"
				}
				body["photo"] = map[string]string{
					"data":   base64.StdEncoding.EncodeToString(data),
					"format": format,
				}
			}
			out, err := postJSON(cmd.Context(), "/api/items", body)
			if err != nil {
				return err
			}
			return printIndented(out)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().StringVar(&description, "description", "", "Item description")
	cmd.Flags().StringVar(&location, "location", "", "Item location")
	cmd.Flags().StringVar(&photoPath, "photo", "", "Path to a photo file")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("description")
	cmd.MarkFlagRequired("location")
	return cmd
}

func newSetStatusCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "set-status <id> <on|off|del>",
		Short: "Change an item's visibility status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, status := args[0], args[1]
			if status == "del" && !confirm {
				return fmt.Errorf("retiring an item is permanent for readers; pass --confirm to proceed")
			}
			body := map[string]any{"status": status, "confirm": confirm}
			data, _ := json.Marshal(body)
			out, err := doRequest(cmd.Context(), http.MethodPatch, "/api/items/"+id+"/status", bytes.NewReader(data))
			if err != nil {
				return err
			}
			return printIndented(out)
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm a del transition")
	return cmd
}

func postJSON(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return doRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
}

func doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(serverURL, "/")+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(out, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s (%d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return out, nil
}

func printIndented(data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return nil
	}
	fmt.Println(buf.String())
	return nil
}
