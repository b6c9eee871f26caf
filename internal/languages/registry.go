package languages

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-enry/go-enry/v2"
)

// LanguageDescriptor 用于对外展示语言及后缀信息。
type LanguageDescriptor struct {
	ID         ID
	Name       string
	Extensions []string
}

// Registry 管理语言档案注册与后缀映射。
// 注册中心初始化后只读，可在多个 goroutine 间无锁共享。
type Registry struct {
	profiles     []Profile
	profileByExt map[string]int
	profileByID  map[ID]int
	profileEnry  map[string]int
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default 返回进程级共享注册中心，首次调用时惰性初始化且只初始化一次。
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry 创建并注册所有内置语言档案。
func NewRegistry() *Registry {
	profiles := []Profile{
		cFamilyProfile(),
		basicProfile(),
		sqlProfile(),
		htmlProfile(),
		idlProfile(),
	}

	registry := &Registry{
		profiles:     profiles,
		profileByExt: make(map[string]int),
		profileByID:  make(map[ID]int),
		profileEnry:  make(map[string]int),
	}

	for idx, profile := range profiles {
		registry.profileByID[profile.ID] = idx
		for _, ext := range profile.Extensions {
			registry.profileByExt[strings.ToLower(ext)] = idx
		}
		for _, name := range profile.EnryNames {
			registry.profileEnry[strings.ToLower(name)] = idx
		}
	}

	return registry
}

// Lookup 按语言标识查找档案。
func (r *Registry) Lookup(id ID) (Profile, bool) {
	idx, ok := r.profileByID[id]
	if !ok {
		return Profile{}, false
	}
	return r.profiles[idx], true
}

// Parse 按名称查找档案：依次尝试语言标识、显示名、后缀（可不带点号）、go-enry 语言名，均不区分大小写。
func (r *Registry) Parse(name string) (Profile, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return Profile{}, false
	}

	if profile, ok := r.Lookup(ID(key)); ok {
		return profile, true
	}
	for _, profile := range r.profiles {
		if strings.ToLower(profile.Name) == key {
			return profile, true
		}
	}
	ext := key
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if idx, ok := r.profileByExt[ext]; ok {
		return r.profiles[idx], true
	}
	if idx, ok := r.profileEnry[key]; ok {
		return r.profiles[idx], true
	}
	return Profile{}, false
}

// ProfileForFile 根据文件名查找档案。
// 先按内置后缀表匹配；未命中时交给 go-enry 按后缀识别语言，再映射回内置档案。
func (r *Registry) ProfileForFile(path string) (Profile, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if idx, ok := r.profileByExt[ext]; ok {
		return r.profiles[idx], true
	}

	name, _ := enry.GetLanguageByExtension(filepath.Base(path))
	if name == "" {
		return Profile{}, false
	}
	idx, ok := r.profileEnry[strings.ToLower(name)]
	if !ok {
		return Profile{}, false
	}
	return r.profiles[idx], true
}

// Languages 返回已注册语言清单。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.profiles))
	for _, profile := range r.profiles {
		extensions := append([]string(nil), profile.Extensions...)
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			ID:         profile.ID,
			Name:       profile.Name,
			Extensions: extensions,
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// ExtensionsForLanguage 返回指定语言对应的全部后缀。
func (r *Registry) ExtensionsForLanguage(language string) []string {
	for _, profile := range r.profiles {
		if profile.Name == language {
			extensions := append([]string(nil), profile.Extensions...)
			sort.Strings(extensions)
			return extensions
		}
	}
	return nil
}
