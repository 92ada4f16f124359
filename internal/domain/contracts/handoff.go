package contracts

import (
	"net/url"
	"strings"

	"contracts-app/internal/domain/apperr"
	"contracts-app/internal/domain/party"
)

/*
	Document handoff
	----------------
	1. brand uploads the unsigned document link
	2. creator records the unsigned download
	3. creator uploads the signed document link
	4. brand records the signed download
	Every step is one-way; a repeated step yields AlreadySet.
*/

func (c *Contract) UploadUnsignedLink(role party.Role, link string) error {
	if role != party.Brand {
		return apperr.New(apperr.RoleMismatch, "only the brand uploads the unsigned contract")
	}
	if c.UnsignedContractLink != nil {
		return apperr.New(apperr.AlreadySet, "unsigned contract link is already set")
	}
	clean, err := ValidateLink(link)
	if err != nil {
		return err
	}
	c.UnsignedContractLink = &clean
	return nil
}

func (c *Contract) RecordUnsignedDownload(role party.Role) error {
	if role != party.Creator {
		return apperr.New(apperr.RoleMismatch, "only the creator downloads the unsigned contract")
	}
	if c.UnsignedContractLink == nil {
		return apperr.New(apperr.WorkflowIncomplete, "unsigned contract has not been uploaded")
	}
	if c.UnsignedContractDownloadedByCreator {
		return apperr.New(apperr.AlreadySet, "unsigned contract download is already recorded")
	}
	c.UnsignedContractDownloadedByCreator = true
	return nil
}

func (c *Contract) UploadSignedLink(role party.Role, link string) error {
	if role != party.Creator {
		return apperr.New(apperr.RoleMismatch, "only the creator uploads the signed contract")
	}
	if c.SignedContractLink != nil {
		return apperr.New(apperr.AlreadySet, "signed contract link is already set")
	}
	if !c.UnsignedContractDownloadedByCreator {
		return apperr.New(apperr.WorkflowIncomplete, "unsigned contract has not been downloaded")
	}
	clean, err := ValidateLink(link)
	if err != nil {
		return err
	}
	c.SignedContractLink = &clean
	return nil
}

func (c *Contract) RecordSignedDownload(role party.Role) error {
	if role != party.Brand {
		return apperr.New(apperr.RoleMismatch, "only the brand downloads the signed contract")
	}
	if c.SignedContractLink == nil {
		return apperr.New(apperr.WorkflowIncomplete, "signed contract has not been uploaded")
	}
	if c.SignedContractDownloadedByBrand {
		return apperr.New(apperr.AlreadySet, "signed contract download is already recorded")
	}
	c.SignedContractDownloadedByBrand = true
	return nil
}

// HandoffComplete reports whether all four handoff flags are set.
func (c *Contract) HandoffComplete() bool {
	return c.UnsignedContractLink != nil &&
		c.UnsignedContractDownloadedByCreator &&
		c.SignedContractLink != nil &&
		c.SignedContractDownloadedByBrand
}

// ValidateLink accepts absolute http(s) URLs and returns them trimmed.
// The engine stores links opaquely and never fetches them.
func ValidateLink(link string) (string, error) {
	clean := strings.TrimSpace(link)
	if clean == "" {
		return "", apperr.New(apperr.InvalidInput, "link is required")
	}
	u, err := url.Parse(clean)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", apperr.New(apperr.InvalidInput, "link must be an absolute http(s) URL")
	}
	return clean, nil
}
