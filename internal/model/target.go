package model

import "slices"

// SupportedTargets is the allow-list of deployment targets recognized by the
// target-service table, in display order.
var SupportedTargets = []string{
	"azure-appservice",
	"azure-aks",
	"azure-container-apps",
	"AppService.Windows",
	"AppService.Linux",
	"AKS.Linux",
	"AKS.Windows",
	"ACA",
	"AppServiceContainer.Linux",
	"AppServiceContainer.Windows",
	"AppServiceManagedInstance.Windows",
}

// IsSupportedTarget reports whether id is in SupportedTargets.
// Matching is exact; target identifiers are case-sensitive.
func IsSupportedTarget(id string) bool {
	return slices.Contains(SupportedTargets, id)
}

// FilterSupportedTargets returns the ids that are supported, preserving
// their order and dropping duplicates.
func FilterSupportedTargets(ids []string) []string {
	filtered := make([]string, 0, len(ids))
	for _, id := range ids {
		if IsSupportedTarget(id) && !slices.Contains(filtered, id) {
			filtered = append(filtered, id)
		}
	}
	return filtered
}
