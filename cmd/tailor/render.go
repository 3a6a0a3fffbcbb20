// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"tailor-cli/internal/hostenv"
	"tailor-cli/internal/planner"
	"tailor-cli/internal/state"
	"tailor-cli/pkg/types"
)

// printRaw writes v as compact single-line JSON, the machine-readable
// form behind every --raw flag.
func printRaw(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// shortDigest abbreviates a fingerprint digest for display contexts
// where the full 64 hex characters would drown the line.
func shortDigest(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12] + "…"
}

// renderProfile writes the styled host profile.
func renderProfile(w io.Writer, p *hostenv.Profile) {
	fmt.Fprintln(w, headerStyle.Render("Host Profile"))

	fmt.Fprintf(w, "%s OS:               %s %s\n", infoIcon, CmdStyle.Render(p.OSFamily), p.OSVersion)
	fmt.Fprintf(w, "%s Architecture:     %s\n", infoIcon, p.Arch)
	fmt.Fprintf(w, "%s Memory:           %d GB\n", infoIcon, p.RAMGB())

	managers := "(none detected)"
	if len(p.PackageManagers) > 0 {
		managers = strings.Join(p.PackageManagers, ", ")
	}
	fmt.Fprintf(w, "%s Package managers: %s\n", infoIcon, managers)

	hostname := p.Hostname
	if hostname == "" {
		hostname = "(unknown)"
	}
	fmt.Fprintf(w, "%s Hostname:         %s\n", infoIcon, hostname)
	fmt.Fprintf(w, "%s Fingerprint:      %s\n", infoIcon, VerboseStyle.Render(p.Fingerprint))
}

// renderPlan writes the styled install plan: the header block followed
// by every step in execution order.
func renderPlan(w io.Writer, plan *planner.Plan) {
	fmt.Fprintln(w, headerStyle.Render("Install Plan"))

	fmt.Fprintf(w, "%s App:         %s %s\n", infoIcon, CmdStyle.Render(plan.AppName), plan.AppVersion)
	fmt.Fprintf(w, "%s Mode:        %s\n", infoIcon, CmdStyle.Render(plan.ModeName))
	fmt.Fprintf(w, "%s Target OS:   %s\n", infoIcon, plan.OS)
	fmt.Fprintf(w, "%s Fingerprint: %s\n", infoIcon, VerboseStyle.Render(shortDigest(plan.Fingerprint)))

	if n := plan.ProvisioningSteps(); n > 0 {
		fmt.Fprintf(w, "%s Steps:       %d (%d provisioning)\n", infoIcon, len(plan.Steps), n)
	} else {
		fmt.Fprintf(w, "%s Steps:       %d\n", infoIcon, len(plan.Steps))
	}
	fmt.Fprintln(w)

	for i := range plan.Steps {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, plan.Steps[i].Desc)
	}
}

// renderRejections builds the styled mode-by-mode explanation of a
// selection failure. Every mode appears with its complete reason list,
// so one read shows the full distance to compatibility.
func renderRejections(selErr *planner.NoCompatibleModeError) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\n%s No compatible installation mode for %s\n\n",
		errorIcon, CmdStyle.Render(selErr.AppName))

	for _, rej := range selErr.Rejections {
		fmt.Fprintf(&sb, "  %s:\n", CmdStyle.Render(rej.Mode))
		for _, reason := range rej.Reasons {
			fmt.Fprintf(&sb, "    - %s\n", reason)
		}
	}

	return sb.String()
}

// renderHistory writes the styled install history in stored order.
func renderHistory(w io.Writer, path string, records []state.Record) {
	fmt.Fprintln(w, headerStyle.Render("Install History"))
	fmt.Fprintf(w, "%s State file: %s\n", infoIcon, pathStyle.Render(path))

	if len(records) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s No installs recorded yet.\n", infoIcon)
		fmt.Fprintf(w, "  Run %s to record one.\n", CmdStyle.Render("tailor install <manifest>"))
		return
	}

	fmt.Fprintf(w, "%s Records:    %d\n", infoIcon, len(records))
	fmt.Fprintln(w)

	for i, rec := range records {
		icon := successIcon
		if rec.Status != types.StatusSuccess {
			icon = errorIcon
		}
		fmt.Fprintf(w, "%3d. %s %s %s  mode %s  %s/%s  %s\n",
			i+1,
			icon,
			CmdStyle.Render(rec.AppName),
			rec.AppVersion,
			rec.Mode,
			rec.OSFamily,
			rec.Arch,
			VerboseStyle.Render(rec.Timestamp.Format(time.RFC3339)),
		)
	}
}
