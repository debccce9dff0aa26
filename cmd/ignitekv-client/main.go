// Command ignitekv-client dials ignitekv-server and issues one of
// set, get, or rm against it, printing the result to stdout.
package main

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/spf13/pflag"

	"github.com/nilotpal-labs/ignitekv/internal/codec"
	"github.com/nilotpal-labs/ignitekv/pkg/options"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: ignitekv-client <set|get|rm> KEY [VALUE] [--addr ADDR]")
		return 1
	}

	subcommand := args[0]
	flags := pflag.NewFlagSet("ignitekv-client", pflag.ContinueOnError)
	addr := flags.String("addr", options.NewDefaultOptions().ListenAddr, "server address")
	if err := flags.Parse(args[1:]); err != nil {
		return 1
	}
	positional := flags.Args()

	var req codec.Request
	switch subcommand {
	case "set":
		if len(positional) != 2 {
			fmt.Fprintln(os.Stderr, "usage: ignitekv-client set KEY VALUE [--addr ADDR]")
			return 1
		}
		req = codec.Request{Op: codec.ReqSet, Key: positional[0], Value: positional[1]}

	case "get":
		if len(positional) != 1 {
			fmt.Fprintln(os.Stderr, "usage: ignitekv-client get KEY [--addr ADDR]")
			return 1
		}
		req = codec.Request{Op: codec.ReqGet, Key: positional[0]}

	case "rm":
		if len(positional) != 1 {
			fmt.Fprintln(os.Stderr, "usage: ignitekv-client rm KEY [--addr ADDR]")
			return 1
		}
		req = codec.Request{Op: codec.ReqRm, Key: positional[0]}

	default:
		fmt.Fprintf(os.Stderr, "unrecognized subcommand %q (want set, get, or rm)\n", subcommand)
		return 1
	}

	resp, err := dispatch(*addr, req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if !resp.Success {
		if resp.Message == "Key not found" && subcommand == "get" {
			fmt.Println("Key not found")
			return 0
		}
		fmt.Fprintln(os.Stderr, resp.Message)
		return 1
	}

	switch subcommand {
	case "get":
		if resp.Result == nil {
			fmt.Println("Key not found")
		} else {
			fmt.Println(*resp.Result)
		}
	}

	return 0
}

func dispatch(addr string, req codec.Request) (codec.Response, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return codec.Response{}, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(codec.EncodeRequest(req)); err != nil {
		return codec.Response{}, fmt.Errorf("failed to send request: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.CloseWrite()
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return codec.Response{}, fmt.Errorf("failed to read response: %w", err)
	}

	resp, err := codec.DecodeResponse(raw)
	if err != nil {
		return codec.Response{}, fmt.Errorf("malformed response: %w", err)
	}
	return resp, nil
}
