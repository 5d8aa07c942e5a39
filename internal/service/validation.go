package service

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/config"
	"docvault/internal/domain"
)

// folderNamePattern rejects the characters that break real filesystems
// and URL paths. Folders are virtual but names travel to both.
var folderNamePattern = regexp.MustCompile(`^[^<>:"/\\|?*]+$`)

// reservedDeviceNames are Windows device names that cause trouble the
// moment a folder name is used as part of an export path.
var reservedDeviceNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {},
	"COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {},
	"LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// ValidateFolderName checks a trimmed folder name against the naming
// rules: length bounds, forbidden characters, reserved device names.
func ValidateFolderName(name string) error {
	err := validation.Validate(name,
		validation.Required.Error("folder name is required"),
		validation.Length(config.MinFolderNameLength, config.MaxFolderNameLength).
			Error(fmt.Sprintf("folder name must be %d-%d characters",
				config.MinFolderNameLength, config.MaxFolderNameLength)),
		validation.Match(folderNamePattern).
			Error(`folder name cannot contain < > : " / \ | ? *`),
		validation.By(notReservedDeviceName),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

// notReservedDeviceName is an ozzo rule rejecting OS device names,
// case-insensitive.
func notReservedDeviceName(value interface{}) error {
	name, _ := value.(string)
	if _, reserved := reservedDeviceNames[strings.ToUpper(name)]; reserved {
		return fmt.Errorf("%q is a reserved name", name)
	}
	return nil
}
