package store

type Setting struct {
	Key   string
	Value string
}

// Setting keys for UI preferences.
const (
	SettingDefaultCategory = "default_category"
	SettingDefaultSection  = "default_section"
	SettingFilter          = "filter"
)
