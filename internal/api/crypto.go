package api

import (
	"context"
	"fmt"
	"net/url"
)

// cryptoRequest is the body for encrypt/decrypt calls
type cryptoRequest struct {
	FileName string `json:"file_name"`
}

// EncryptResponse acknowledges a server-side encryption
type EncryptResponse struct {
	EncryptedFilename string `json:"encrypted_filename"`
	Directory         string `json:"directory"`
}

// DecryptResponse names the decrypted artifact to fetch
type DecryptResponse struct {
	DecryptedFilename string `json:"decrypted_filename"`
	Directory         string `json:"directory"`
}

// EncryptFile asks the server to encrypt an uploaded file in place
func (c *Client) EncryptFile(ctx context.Context, fileName string) (*EncryptResponse, error) {
	var result EncryptResponse
	r, err := c.restClient.R().
		SetContext(ctx).
		SetBody(cryptoRequest{FileName: fileName}).
		SetResult(&result).
		Post("/encrypt")

	if err != nil {
		return nil, fmt.Errorf("encrypt request failed: %w", err)
	}

	if r.IsError() {
		return nil, newApiError(r, fmt.Sprintf("failed to encrypt %s", fileName))
	}

	return &result, nil
}

// DecryptFile asks the server to decrypt an encrypted file for preview
func (c *Client) DecryptFile(ctx context.Context, fileName string) (*DecryptResponse, error) {
	var result DecryptResponse
	r, err := c.restClient.R().
		SetContext(ctx).
		SetBody(cryptoRequest{FileName: fileName}).
		SetResult(&result).
		Post("/decrypt")

	if err != nil {
		return nil, fmt.Errorf("decrypt request failed: %w", err)
	}

	if r.IsError() {
		return nil, newApiError(r, fmt.Sprintf("failed to decrypt %s", fileName))
	}

	return &result, nil
}

// DownloadDecrypted fetches the bytes of a decrypted artifact
func (c *Client) DownloadDecrypted(ctx context.Context, decryptedName string) ([]byte, error) {
	r, err := c.restClient.R().
		SetContext(ctx).
		Get("/download/decrypted/" + url.PathEscape(decryptedName))

	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}

	if r.IsError() {
		return nil, newApiError(r, fmt.Sprintf("failed to download %s", decryptedName))
	}

	return r.Body(), nil
}
