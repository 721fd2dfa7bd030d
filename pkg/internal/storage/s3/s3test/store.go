// Package s3test 提供内存版 s3.ObjectStore，记录调用并支持按方法注入失败.
package s3test

import (
	"context"
	"errors"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	minio "github.com/minio/minio-go/v7"
)

// Method 名称与 ObjectStore 方法一致.
const (
	MethodBucketExists       = "BucketExists"
	MethodMakeBucket         = "MakeBucket"
	MethodSetBucketPolicy    = "SetBucketPolicy"
	MethodPresignedPutObject = "PresignedPutObject"
	MethodPutObject          = "PutObject"
	MethodRemoveObject       = "RemoveObject"
	MethodStatObject         = "StatObject"
	MethodListObjects        = "ListObjects"
	MethodListBuckets        = "ListBuckets"
)

// mutating 会改变存储状态的方法.
var mutating = map[string]bool{
	MethodMakeBucket:      true,
	MethodSetBucketPolicy: true,
	MethodPutObject:       true,
	MethodRemoveObject:    true,
}

// Object 内存中的对象.
type Object struct {
	Data         []byte
	ContentType  string
	LastModified time.Time
}

// Store 线程安全的内存对象存储.
type Store struct {
	mu       sync.Mutex
	buckets  map[string]bool
	policies map[string]string
	objects  map[string]map[string]Object
	calls    []string
	fail     map[string]error
	// MakeBucketDelay 让 MakeBucket 阻塞一段时间，用于并发测试
	MakeBucketDelay time.Duration
	// Now 对象写入时间来源
	Now func() time.Time
}

// New 创建空的内存存储.
func New() *Store {
	return &Store{
		buckets:  map[string]bool{},
		policies: map[string]string{},
		objects:  map[string]map[string]Object{},
		fail:     map[string]error{},
		Now:      time.Now,
	}
}

// FailOn 让指定方法返回 err；err 为 nil 时取消注入.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.fail, method)

		return
	}

	s.fail[method] = err
}

func (s *Store) record(method string) error {
	s.calls = append(s.calls, method)

	return s.fail[method]
}

// Calls 返回调用记录副本.
func (s *Store) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.calls...)
}

// Count 返回某方法被调用的次数.
func (s *Store) Count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, c := range s.calls {
		if c == method {
			n++
		}
	}

	return n
}

// Mutations 返回改变存储状态的调用次数.
func (s *Store) Mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0

	for _, c := range s.calls {
		if mutating[c] {
			n++
		}
	}

	return n
}

// AddBucket 直接创建 bucket，不计入调用记录.
func (s *Store) AddBucket(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets[name] = true
	if s.objects[name] == nil {
		s.objects[name] = map[string]Object{}
	}
}

// Put 直接写入对象，不计入调用记录.
func (s *Store) Put(bucket, key string, data []byte, contentType string, modified time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets[bucket] = true
	if s.objects[bucket] == nil {
		s.objects[bucket] = map[string]Object{}
	}

	s.objects[bucket][key] = Object{Data: data, ContentType: contentType, LastModified: modified}
}

// Has 判断对象是否存在.
func (s *Store) Has(bucket, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.objects[bucket][key]

	return ok
}

// Get 返回对象副本.
func (s *Store) Get(bucket, key string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[bucket][key]

	return obj, ok
}

// Policy 返回 bucket 当前策略.
func (s *Store) Policy(bucket string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.policies[bucket]
}

// BucketExists 实现 ObjectStore.
func (s *Store) BucketExists(_ context.Context, bucketName string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(MethodBucketExists); err != nil {
		return false, err
	}

	return s.buckets[bucketName], nil
}

// MakeBucket 实现 ObjectStore；bucket 已存在时返回 BucketAlreadyOwnedByYou.
func (s *Store) MakeBucket(_ context.Context, bucketName string, _ minio.MakeBucketOptions) error {
	s.mu.Lock()
	delay := s.MakeBucketDelay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(MethodMakeBucket); err != nil {
		return err
	}

	if s.buckets[bucketName] {
		return minio.ErrorResponse{Code: "BucketAlreadyOwnedByYou", BucketName: bucketName, StatusCode: 409}
	}

	s.buckets[bucketName] = true
	s.objects[bucketName] = map[string]Object{}

	return nil
}

// SetBucketPolicy 实现 ObjectStore.
func (s *Store) SetBucketPolicy(_ context.Context, bucketName, policy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(MethodSetBucketPolicy); err != nil {
		return err
	}

	s.policies[bucketName] = policy

	return nil
}

// PresignedPutObject 实现 ObjectStore，返回伪造但结构完整的签名地址.
func (s *Store) PresignedPutObject(_ context.Context, bucketName, objectName string, expires time.Duration) (*url.URL, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(MethodPresignedPutObject); err != nil {
		return nil, err
	}

	u := &url.URL{
		Scheme: "http",
		Host:   "s3test.local",
		Path:   "/" + bucketName + "/" + objectName,
	}
	q := url.Values{}
	q.Set("X-Amz-Expires", strconv.Itoa(int(expires.Seconds())))
	q.Set("X-Amz-Signature", "s3test")
	u.RawQuery = q.Encode()

	return u, nil
}

// PutObject 实现 ObjectStore.
func (s *Store) PutObject(_ context.Context, bucketName, objectName string, reader io.Reader, _ int64,
	opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, readErr := io.ReadAll(reader)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(MethodPutObject); err != nil {
		return minio.UploadInfo{}, err
	}

	if readErr != nil {
		return minio.UploadInfo{}, readErr
	}

	if !s.buckets[bucketName] {
		return minio.UploadInfo{}, minio.ErrorResponse{Code: "NoSuchBucket", BucketName: bucketName, StatusCode: 404}
	}

	s.objects[bucketName][objectName] = Object{Data: data, ContentType: opts.ContentType, LastModified: s.Now()}

	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: int64(len(data))}, nil
}

// RemoveObject 实现 ObjectStore；对象不存在时与 S3 一样视为成功.
func (s *Store) RemoveObject(_ context.Context, bucketName, objectName string, _ minio.RemoveObjectOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(MethodRemoveObject); err != nil {
		return err
	}

	delete(s.objects[bucketName], objectName)

	return nil
}

// StatObject 实现 ObjectStore.
func (s *Store) StatObject(_ context.Context, bucketName, objectName string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(MethodStatObject); err != nil {
		return minio.ObjectInfo{}, err
	}

	obj, ok := s.objects[bucketName][objectName]
	if !ok {
		return minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", Key: objectName, StatusCode: 404}
	}

	return minio.ObjectInfo{
		Key:          objectName,
		Size:         int64(len(obj.Data)),
		ContentType:  obj.ContentType,
		LastModified: obj.LastModified,
	}, nil
}

// ListObjects 实现 ObjectStore，按键排序输出.
func (s *Store) ListObjects(_ context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	s.mu.Lock()
	err := s.record(MethodListObjects)

	infos := make([]minio.ObjectInfo, 0, len(s.objects[bucketName]))
	for key, obj := range s.objects[bucketName] {
		if !strings.HasPrefix(key, opts.Prefix) {
			continue
		}

		infos = append(infos, minio.ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.Data)),
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}
	s.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })

	ch := make(chan minio.ObjectInfo, len(infos)+1)
	if err != nil {
		ch <- minio.ObjectInfo{Err: err}
	} else {
		for _, info := range infos {
			ch <- info
		}
	}

	close(ch)

	return ch
}

// ListBuckets 实现 ObjectStore.
func (s *Store) ListBuckets(_ context.Context) ([]minio.BucketInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.record(MethodListBuckets); err != nil {
		return nil, err
	}

	out := make([]minio.BucketInfo, 0, len(s.buckets))
	for name := range s.buckets {
		out = append(out, minio.BucketInfo{Name: name})
	}

	return out, nil
}

// ErrInjected 便于测试中注入的通用错误.
var ErrInjected = errors.New("s3test: injected failure")
