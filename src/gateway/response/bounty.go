package response

import (
	"github.com/algoease/escrow/src/utils/model"
)

type Bounty struct {
	Id                string   `json:"id"`
	ClientAddress     string   `json:"client_address"`
	FreelancerAddress string   `json:"freelancer_address,omitempty"`
	VerifierAddress   string   `json:"verifier_address"`
	Amount            uint64   `json:"amount"`
	Deadline          int64    `json:"deadline"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags"`
	Status            string   `json:"status"`
	StatusCode        uint8    `json:"status_code"`
	Version           int64    `json:"version"`
	CreatedAt         int64    `json:"created_at"`
	UpdatedAt         int64    `json:"updated_at"`
}

type Bounties struct {
	Bounties []Bounty `json:"bounties"`
}

func BountyToResponse(bounty *model.Bounty) *Bounty {
	code, _ := bounty.Status.Code()
	return &Bounty{
		Id:                bounty.ID,
		ClientAddress:     bounty.ClientAddress,
		FreelancerAddress: bounty.FreelancerAddress.String,
		VerifierAddress:   bounty.VerifierAddress,
		Amount:            bounty.Amount,
		Deadline:          bounty.Deadline,
		Title:             bounty.Title,
		Description:       bounty.Description,
		Tags:              bounty.Tags,
		Status:            string(bounty.Status),
		StatusCode:        code,
		Version:           bounty.Version,
		CreatedAt:         bounty.CreatedAt.Unix(),
		UpdatedAt:         bounty.UpdatedAt.Unix(),
	}
}

func BountiesToResponse(bounties []*model.Bounty) *Bounties {
	out := make([]Bounty, len(bounties))
	for i, bounty := range bounties {
		out[i] = *BountyToResponse(bounty)
	}
	return &Bounties{Bounties: out}
}
