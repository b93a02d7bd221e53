package models

// AllAction is the synthetic action that depends on every declared action.
const AllAction = "all"

// ActionKind names the closed set of action variants.
type ActionKind string

const (
	KindPack      ActionKind = "pack"
	KindCmsisPdsc ActionKind = "cmsis"
	KindNone      ActionKind = "none"
)

// ActionConfig is one of *PackAction, *CmsisPdscAction or *NoneAction.
type ActionConfig interface {
	Kind() ActionKind
	ActionName() string
	actionConfig()
}

// PackAction bundles every file group matching Categories into the archive named by Target.
type PackAction struct {
	Name       string      `json:"name"`
	Target     string      `json:"target"` // path template, relative to the output directory
	Categories CategorySet `json:"categories"`
}

// CmsisPdscAction generates a CMSIS pack descriptor named by Target.
type CmsisPdscAction struct {
	Name       string      `json:"name"`
	Target     string      `json:"target"`
	CClass     string      `json:"cclass,omitempty"`
	CGroup     string      `json:"cgroup,omitempty"`
	Categories CategorySet `json:"categories,omitempty"`
}

// NoneAction has no effect beyond satisfying dependency edges.
type NoneAction struct {
	Name string `json:"name"`
}

func (a *PackAction) Kind() ActionKind      { return KindPack }
func (a *CmsisPdscAction) Kind() ActionKind { return KindCmsisPdsc }
func (a *NoneAction) Kind() ActionKind      { return KindNone }

func (a *PackAction) ActionName() string      { return a.Name }
func (a *CmsisPdscAction) ActionName() string { return a.Name }
func (a *NoneAction) ActionName() string      { return a.Name }

func (*PackAction) actionConfig()      {}
func (*CmsisPdscAction) actionConfig() {}
func (*NoneAction) actionConfig()      {}

// TargetTemplate returns the unexpanded output path of an action, or "" for kinds without output.
func TargetTemplate(cfg ActionConfig) string {
	switch a := cfg.(type) {
	case *PackAction:
		return a.Target
	case *CmsisPdscAction:
		return a.Target
	default:
		return ""
	}
}

// ActionEntry is a loaded action with its dependency names in declaration order.
type ActionEntry struct {
	Config       ActionConfig
	Dependencies []string
}

// Name returns the action's name.
func (e *ActionEntry) Name() string {
	return e.Config.ActionName()
}
