package database

import (
	"career_os_backend/internal/config"
	"career_os_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 唯一键冲突翻译成 gorm.ErrDuplicatedKey，步骤进度的并发首写依赖它
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.UserSkill{},
		&model.LearningPath{},
		&model.PathStep{},
		&model.UserLearningPath{},
		&model.UserStepProgress{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认技能目录（技能图为空时插入，作为生成路径的目标技能候选）
	var skillCount int64
	db.Model(&model.Skill{}).Count(&skillCount)
	if skillCount == 0 {
		defaultSkills := []model.Skill{
			{Name: "JavaScript", Category: "web_development", Description: "前端与全栈开发基础语言"},
			{Name: "HTML", Category: "web_development", Description: "网页结构"},
			{Name: "CSS", Category: "web_development", Description: "网页样式"},
			{Name: "Python", Category: "data_science", Description: "数据科学与自动化首选语言"},
			{Name: "SQL", Category: "data_science", Description: "关系型数据查询"},
			{Name: "Java", Category: "programming", Description: "通用后端开发语言"},
			{Name: "Go", Category: "programming", Description: "云原生后端开发语言"},
			{Name: "Docker", Category: "devops", Description: "容器化与交付"},
		}
		for i := range defaultSkills {
			db.Create(&defaultSkills[i])
		}

		// 基础前置关系：CSS/JS 依赖 HTML，Docker 依赖任一后端语言之一（Go）
		link := func(name, prereq string) {
			var s, p model.Skill
			if db.Where("name = ?", name).First(&s).Error == nil &&
				db.Where("name = ?", prereq).First(&p).Error == nil {
				db.Model(&s).Association("Prerequisites").Append(&p)
			}
		}
		link("CSS", "HTML")
		link("JavaScript", "HTML")
		link("Docker", "Go")
	}

	return db, nil
}
