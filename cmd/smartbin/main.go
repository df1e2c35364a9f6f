package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte) (int, []byte, error) {
	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func validKind(k string) bool {
	return k == "company" || k == "user"
}

func main() {
	var (
		baseURL = envOr("SMARTBIN_URL", "http://localhost:8080")
		out     = envOr("SMARTBIN_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "smartbin",
		Short: "CLI operativa para SmartBin (salud, auditoría y reparación)",
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env SMARTBIN_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	httpClient := &http.Client{Timeout: timeout}
	cl := &client{BaseURL: baseURL, OutFormat: out, HTTP: httpClient}

	// ping: readiness real, pega a ambos stores
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Verifica liveness y readiness del servicio",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := cl.do("GET", "/readyz", nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("ping fallo: status=%d body=%s", status, string(body))
			}
			if cl.OutFormat == "text" {
				fmt.Println("ok")
				return nil
			}
			cl.print(status, body)
			return nil
		},
	}

	// audit company 42 | audit company COMP-007 | audit user 3
	auditCmd := &cobra.Command{
		Use:   "audit <kind> <id>",
		Short: "Compara la fila relacional con su documento espejo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id := args[0], args[1]
			if !validKind(kind) {
				return fmt.Errorf("kind inválido %q (company|user)", kind)
			}
			status, body, err := cl.do("GET", "/v1/admin/audit/"+kind+"/"+id, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("audit fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	// repair company 42: reintenta la escritura documental pendiente
	repairCmd := &cobra.Command{
		Use:   "repair <kind> <id>",
		Short: "Reaplica la escritura documental pendiente de una entidad",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, id := args[0], args[1]
			if !validKind(kind) {
				return fmt.Errorf("kind inválido %q (company|user)", kind)
			}
			status, body, err := cl.do("POST", "/v1/admin/repair/"+kind+"/"+id, nil)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("repair fallo: status=%d body=%s", status, string(body))
			}
			cl.print(status, body)
			return nil
		},
	}

	root.AddCommand(pingCmd)
	root.AddCommand(auditCmd)
	root.AddCommand(repairCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
