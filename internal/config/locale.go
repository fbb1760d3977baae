package config

import (
	"fmt"

	"github.com/couchcryptid/weather-geocoder/internal/domain"
	"github.com/spf13/viper"
)

// LoadLocale returns the built-in locale, overlaid with the keys present in
// the YAML (or JSON/TOML) file at path. An empty path yields the defaults.
//
// Table keys replace the built-in table wholesale, so a file that lists
// city_province_mismatches must list every pair it wants enforced.
func LoadLocale(path string) (domain.Locale, error) {
	locale := domain.DefaultLocale()
	if path == "" {
		return locale, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return domain.Locale{}, fmt.Errorf("read locale file %s: %w", path, err)
	}
	if v.IsSet("city_province_mismatches") {
		locale.CityProvinceMismatches = nil
	}
	if v.IsSet("province_aliases") {
		locale.ProvinceAliases = nil
	}
	if err := v.Unmarshal(&locale); err != nil {
		return domain.Locale{}, fmt.Errorf("decode locale file %s: %w", path, err)
	}
	if locale.DomesticCountryCode == "" {
		return domain.Locale{}, fmt.Errorf("locale file %s: domestic_country_code must not be empty", path)
	}
	return locale, nil
}
