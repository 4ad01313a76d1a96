package pkcs12

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"software.sslmate.com/src/go-pkcs12"
)

// ToPEM converte um certificado PKCS12 para blocos PEM
func ToPEM(pfxData []byte, password string) ([]*pem.Block, error) {
	privateKey, certificate, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, err
	}

	var blocks []*pem.Block

	if certificate != nil {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: certificate.Raw,
		})
	}

	// Certificados da cadeia (CA)
	for _, cert := range caCerts {
		blocks = append(blocks, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: cert.Raw,
		})
	}

	if privateKey != nil {
		pkData, err := x509.MarshalPKCS8PrivateKey(privateKey)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, &pem.Block{
			Type:  "PRIVATE KEY",
			Bytes: pkData,
		})
	}

	return blocks, nil
}

// ToTLSCertificate converte um certificado A1 (PKCS12) em um tls.Certificate
// para autenticação mútua com o provedor fiscal
func ToTLSCertificate(pfxData []byte, password string) (tls.Certificate, error) {
	blocks, err := ToPEM(pfxData, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("erro ao decodificar certificado PKCS12: %w", err)
	}

	var certPEM, keyPEM []byte
	for _, b := range blocks {
		switch b.Type {
		case "CERTIFICATE":
			certPEM = append(certPEM, pem.EncodeToMemory(b)...)
		case "PRIVATE KEY":
			keyPEM = append(keyPEM, pem.EncodeToMemory(b)...)
		}
	}
	if len(keyPEM) == 0 {
		return tls.Certificate{}, errors.New("certificado PKCS12 não contém chave privada")
	}

	return tls.X509KeyPair(certPEM, keyPEM)
}

// LoadTLSCertificate lê um arquivo .pfx/.p12 do disco
func LoadTLSCertificate(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("erro ao ler certificado %s: %w", path, err)
	}
	return ToTLSCertificate(data, password)
}
