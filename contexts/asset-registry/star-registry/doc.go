// Package starregistry contains the star registry: minting uniquely numbered
// star assets, listing them for sale, settling purchases against the host
// ledger, and bilateral or unilateral ownership changes.
//
// The module keeps domain/application logic decoupled from runtime/platform
// concerns through ports and adapter composition.
package starregistry
