// Package client implements the line-based protocol from the client side
// of a request: dial, send one framed command, and decode the single
// response line the server writes back before closing the connection.
package client

import (
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
)

// Client issues commands against a server address. Each call dials a fresh
// connection, because the server protocol handles exactly one request per
// connection.
type Client struct {
	addr    string
	timeout time.Duration
}

// New builds a Client targeting addr.
func New(addr string) *Client {
	return &Client{addr: addr, timeout: 5 * time.Second}
}

// Get requests the value for key. The second return value is false when
// the server reports the key as absent.
func (c *Client) Get(key string) (string, bool, error) {
	body, err := c.send(fmt.Sprintf("GET:%s", key))
	if err != nil {
		return "", false, err
	}
	if body == "NONE" {
		return "", false, nil
	}
	return body, true, nil
}

// Set stores value under key.
func (c *Client) Set(key, value string) error {
	_, err := c.send(fmt.Sprintf("SET:%s:%s", key, value))
	return err
}

// Remove deletes key.
func (c *Client) Remove(key string) error {
	_, err := c.send("REMOVE:" + key)
	return err
}

// Exit asks the server to shut down. It does not wait for or expect a
// response, matching the protocol's EXIT semantics.
func (c *Client) Exit() error {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return kvserrors.NewClientError(err, "failed to connect to server")
	}
	defer conn.Close()
	_, err = conn.Write([]byte("EXIT\n"))
	return err
}

// send writes one command line and returns the decoded body of an OK
// response, or a *kvserrors.ClientError wrapping the body of an ERR
// response.
func (c *Client) send(command string) (string, error) {
	conn, err := net.DialTimeout("tcp", c.addr, c.timeout)
	if err != nil {
		return "", kvserrors.NewClientError(err, "failed to connect to server")
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(command + "\n")); err != nil {
		return "", kvserrors.NewClientError(err, "failed to send command")
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return "", kvserrors.NewClientError(err, "failed to read response")
	}

	line := strings.TrimRight(string(raw), "\r\n")
	status, encodedBody, found := strings.Cut(line, ":")
	if !found {
		return "", kvserrors.NewClientError(nil, "malformed response from server").WithDetail("response", line)
	}

	bodyBytes, err := base64.StdEncoding.DecodeString(encodedBody)
	if err != nil {
		return "", kvserrors.NewClientError(err, "failed to decode response body")
	}
	body := string(bodyBytes)

	if status != "OK" {
		return "", kvserrors.NewClientError(nil, body).WithDetail("status", status)
	}
	return body, nil
}
