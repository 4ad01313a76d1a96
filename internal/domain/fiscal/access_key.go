package fiscal

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// AccessKeyLength é o tamanho da chave de acesso da NFe
const AccessKeyLength = 44

// ModelNFe é o código do modelo da NFe na chave de acesso
const ModelNFe = 55

// stateCodes mapeia a UF para o código IBGE usado na chave de acesso
var stateCodes = map[string]int{
	"RO": 11, "AC": 12, "AM": 13, "RR": 14, "PA": 15, "AP": 16, "TO": 17,
	"MA": 21, "PI": 22, "CE": 23, "RN": 24, "PB": 25, "PE": 26, "AL": 27, "SE": 28, "BA": 29,
	"MG": 31, "ES": 32, "RJ": 33, "SP": 35,
	"PR": 41, "SC": 42, "RS": 43,
	"MS": 50, "MT": 51, "GO": 52, "DF": 53,
}

// StateCode retorna o código IBGE da UF
func StateCode(state string) (int, bool) {
	code, ok := stateCodes[state]
	return code, ok
}

// AccessKeyParams reúne os campos que compõem a chave de acesso
type AccessKeyParams struct {
	State        string
	IssuedAt     time.Time
	Document     string
	Series       string
	Number       int
	EmissionType int
	RandomCode   int
}

// BuildAccessKey monta a chave de acesso de 44 dígitos com dígito verificador módulo 11
func BuildAccessKey(p AccessKeyParams) (string, error) {
	uf, ok := StateCode(p.State)
	if !ok {
		return "", fmt.Errorf("UF inválida para chave de acesso: %s", p.State)
	}
	document := onlyDigits(p.Document)
	if len(document) != 14 {
		return "", fmt.Errorf("CNPJ inválido para chave de acesso: %s", p.Document)
	}
	series, err := strconv.Atoi(p.Series)
	if err != nil || series < 0 || series > 999 {
		return "", fmt.Errorf("série inválida para chave de acesso: %s", p.Series)
	}
	if p.Number <= 0 || p.Number > 999999999 {
		return "", fmt.Errorf("número inválido para chave de acesso: %d", p.Number)
	}
	if p.EmissionType < 1 || p.EmissionType > 9 {
		return "", fmt.Errorf("tipo de emissão inválido: %d", p.EmissionType)
	}

	base := fmt.Sprintf("%02d%s%s%02d%03d%09d%d%08d",
		uf,
		p.IssuedAt.Format("0601"),
		document,
		ModelNFe,
		series,
		p.Number,
		p.EmissionType,
		p.RandomCode%100000000,
	)
	return base + strconv.Itoa(checkDigit(base)), nil
}

// ValidateAccessKey confere tamanho, dígitos e dígito verificador
func ValidateAccessKey(key string) bool {
	if len(key) != AccessKeyLength || onlyDigits(key) != key {
		return false
	}
	return strconv.Itoa(checkDigit(key[:AccessKeyLength-1])) == key[AccessKeyLength-1:]
}

// RandomCode gera o código numérico aleatório (cNF) de 8 dígitos
func RandomCode() int {
	id := uuid.New()
	return int(binary.BigEndian.Uint32(id[:4]) % 100000000)
}

// checkDigit calcula o dígito módulo 11 com pesos de 2 a 9 da direita para a esquerda
func checkDigit(digits string) int {
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}
