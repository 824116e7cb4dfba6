package model

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// Known atlas folder layouts. The ORG names are checked first because
// published atlas releases use them; the NABA names cover repackaged
// atlases.
var (
	regDirCandidates = []string{
		"ORG-RegAtlas-100HCP",
		"NABA-RegAtlas",
		"ORG-RegAtlas",
	}
	fcDirCandidates = []string{
		"ORG-800FC-100HCP",
		"NABA-800FC",
		"ORG-800FC",
	}
)

// Atlas is the resolved layout of a NABA/ORG atlas root: the
// registration atlas folder, the fiber-clustering atlas folder, and
// the cluster hemisphere location table used for assessment.
type Atlas struct {
	Root         string
	RegDir       string
	FCDir        string
	LocationFile string
}

// RegistrationAtlas returns the path of the registration target
// tractography.
func (a *Atlas) RegistrationAtlas() string {
	return filepath.Join(a.RegDir, "registration_atlas.vtk")
}

// ResolveAtlas validates an atlas root and locates its registration
// and clustering folders. locationOverride, when not empty, is used as
// the cluster hemisphere location file if the atlas does not ship one.
func ResolveAtlas(root, locationOverride string) (*Atlas, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve atlas root", goerr.V("root", root))
	}
	if fi, err := os.Stat(absRoot); err != nil || !fi.IsDir() {
		return nil, goerr.New("atlas root not found", goerr.V("root", absRoot))
	}

	regDir := firstExistingDir(absRoot, regDirCandidates)
	fcDir := firstExistingDir(absRoot, fcDirCandidates)
	if regDir == "" || fcDir == "" {
		return nil, goerr.New("atlas root must contain registration and clustering folders",
			goerr.V("root", absRoot),
			goerr.V("reg_candidates", regDirCandidates),
			goerr.V("fc_candidates", fcDirCandidates),
		)
	}

	if !fileExists(filepath.Join(regDir, "registration_atlas.vtk")) {
		return nil, goerr.New("registration_atlas.vtk not found", goerr.V("dir", regDir))
	}
	if !fileExists(filepath.Join(fcDir, "atlas.p")) || !fileExists(filepath.Join(fcDir, "atlas.vtp")) {
		return nil, goerr.New("atlas.p/atlas.vtp not found", goerr.V("dir", fcDir))
	}

	locationFile := filepath.Join(fcDir, "cluster_hemisphere_location.txt")
	if !fileExists(locationFile) {
		if locationOverride == "" || !fileExists(locationOverride) {
			return nil, goerr.New("cluster_hemisphere_location.txt not found in atlas and no override given",
				goerr.V("fc_dir", fcDir),
				goerr.V("override", locationOverride),
			)
		}
		locationFile = locationOverride
	}

	return &Atlas{
		Root:         absRoot,
		RegDir:       regDir,
		FCDir:        fcDir,
		LocationFile: locationFile,
	}, nil
}

// PlaceholderAtlas builds an Atlas for plan previews when the atlas
// root is not staged yet. The default NABA folder names are assumed.
func PlaceholderAtlas(root string) *Atlas {
	fcDir := filepath.Join(root, "NABA-800FC")
	return &Atlas{
		Root:         root,
		RegDir:       filepath.Join(root, "NABA-RegAtlas"),
		FCDir:        fcDir,
		LocationFile: filepath.Join(fcDir, "cluster_hemisphere_location.txt"),
	}
}

func firstExistingDir(root string, names []string) string {
	for _, name := range names {
		cand := filepath.Join(root, name)
		if fi, err := os.Stat(cand); err == nil && fi.IsDir() {
			return cand
		}
	}
	return ""
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
