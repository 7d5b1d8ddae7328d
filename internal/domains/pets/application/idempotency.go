package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	pettypes "github.com/Apurer/petguard-api/internal/domains/pets/application/types"
	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
)

type normalizedCreatePet struct {
	PrincipalKind string             `json:"principalKind"`
	ProfileID     int64              `json:"profileId"`
	Fields        pettypes.PetFields `json:"fields"`
	Photo         *normalizedPhoto   `json:"photo"`
}

type normalizedPhoto struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Digest      string `json:"digest"`
}

// FingerprintCreatePet builds a deterministic hash of the create request as issued by principal,
// excluding the idempotency key itself.
func FingerprintCreatePet(principal principals.Principal, input pettypes.CreatePetInput) (string, error) {
	normalized := normalizedCreatePet{
		PrincipalKind: string(principal.Kind),
		ProfileID:     principal.ProfileID,
		Fields:        input.PetFields,
	}
	switch {
	case input.StoredPhoto != nil:
		normalized.Photo = &normalizedPhoto{
			Name:        input.StoredPhoto.Name,
			ContentType: input.StoredPhoto.ContentType,
			Digest:      fmt.Sprintf("stored:%d", input.StoredPhoto.Size),
		}
	case input.Photo != nil:
		sum := sha256.Sum256(input.Photo.Content)
		normalized.Photo = &normalizedPhoto{
			Name:        input.Photo.Name,
			ContentType: input.Photo.ContentType,
			Digest:      hex.EncodeToString(sum[:]),
		}
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
