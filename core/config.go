package core

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type Config struct {
	ServerConfig
	Site SiteConfig
	App  AppConfig
}

// ParseConfig reads the configuration file from the working directory.
func ParseConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	conf := &Config{}
	err = v.Unmarshal(conf)
	if err != nil {
		return nil, err
	}

	err = conf.validate()
	if err != nil {
		return nil, err
	}

	return conf, nil
}

type ServerConfig struct {
	Development     bool
	SourceDirectory string
	DataDirectory   string
	UploadsURL      string
	Port            int
	BaseURL         string
	TokensSecret    string
}

type SiteConfig struct {
	Name       string
	Categories []SiteCategory
	Comments   CommentsConfig
}

// SiteCategory declares a category that posts can reference by name.
// ID 0 is reserved for the synthesized Latest category.
type SiteCategory struct {
	ID   int
	Name string
	Slug string
}

type CommentsConfig struct {
	Registration     bool
	RequireNameEmail bool
	ShowAvatars      bool
	Moderation       bool
	CloseForOldPosts bool
	CloseDaysOld     int
}

// AppConfig carries the companion app settings: which categories and pages
// are exposed, how they are ordered, and the branding assets.
type AppConfig struct {
	InactiveCategories []int
	OrderedCategories  []int
	InactivePages      []int
	OrderedPages       []int
	PageContent        map[string]string
	Logo               string
	Icon               string
	Cover              string
	GoogleAnalyticsID  string
	APIKey             string
}

func (c *Config) validate() error {
	var err error

	c.SourceDirectory, err = filepath.Abs(c.SourceDirectory)
	if err != nil {
		return err
	}

	if c.DataDirectory != "" {
		c.DataDirectory, err = filepath.Abs(c.DataDirectory)
		if err != nil {
			return err
		}
	}

	if c.Port < 0 {
		return fmt.Errorf("config: Port should be a positive number or 0")
	}

	baseURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return err
	}
	baseURL.Path = ""

	if baseURL.String() != c.BaseURL {
		return fmt.Errorf("config: BaseURL should be %s", baseURL.String())
	}

	seenIDs := map[int]bool{}
	seenNames := map[string]bool{}
	for i := range c.Site.Categories {
		category := &c.Site.Categories[i]

		if category.ID <= 0 {
			return fmt.Errorf("config: category %q must have a positive ID", category.Name)
		}

		if seenIDs[category.ID] || seenNames[category.Name] {
			return fmt.Errorf("config: category %q is duplicated", category.Name)
		}
		seenIDs[category.ID] = true
		seenNames[category.Name] = true

		if category.Slug == "" {
			category.Slug = slugify(category.Name)
		}
	}

	return nil
}

func (c *Config) category(id int) (SiteCategory, bool) {
	return lo.Find(c.Site.Categories, func(sc SiteCategory) bool {
		return sc.ID == id
	})
}

func (c *Config) categoryByName(name string) (SiteCategory, bool) {
	return lo.Find(c.Site.Categories, func(sc SiteCategory) bool {
		return sc.Name == name
	})
}

func (c *Config) categoryLink(sc SiteCategory) string {
	return c.BaseURL + "/category/" + sc.Slug + "/"
}

func (c *Config) inactiveCategory(id int) bool {
	return lo.Contains(c.App.InactiveCategories, id)
}

// InactivePage reports whether a page is hidden from the app.
func (c *Config) InactivePage(id int) bool {
	return lo.Contains(c.App.InactivePages, id)
}
